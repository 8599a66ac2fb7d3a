package pco

import (
	"bytes"
	"encoding/json"
)

// Ref identifies a related resource.
type Ref struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship is a to-one relationship. To-many relationships are not
// decoded.
type Relationship struct {
	Data *Ref `json:"data"`
}

// UnmarshalJSON ignores to-many data arrays.
func (r *Relationship) UnmarshalJSON(b []byte) error {
	var raw struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	d := bytes.TrimSpace(raw.Data)
	if len(d) == 0 || d[0] != '{' {
		r.Data = nil
		return nil
	}
	var ref Ref
	if err := json.Unmarshal(d, &ref); err != nil {
		return err
	}
	r.Data = &ref
	return nil
}

// Relationships maps a relationship name to its linkage.
type Relationships map[string]Relationship

// ID returns the id of the named to-one relationship, or "".
func (rs Relationships) ID(name string) string {
	if rel, ok := rs[name]; ok && rel.Data != nil {
		return rel.Data.ID
	}
	return ""
}

func related(typ, id string) Relationship {
	return Relationship{Data: &Ref{Type: typ, ID: id}}
}

// Attributes is implemented by every attribute struct.
type Attributes interface {
	// ResourceType is the JSON-API type, e.g. "Plan".
	ResourceType() string
	// Validate checks required attributes.
	Validate() error
}

// Resource is a JSON-API resource object.
type Resource[A Attributes] struct {
	ID            string        `json:"id"`
	Type          string        `json:"type"`
	Attributes    A             `json:"attributes"`
	Relationships Relationships `json:"relationships,omitempty"`
}

// Validate checks the id, the type and the required attributes.
func (r Resource[A]) Validate() error {
	want := r.Attributes.ResourceType()
	if r.ID == "" {
		return &ValidationError{Resource: want, Field: "id", Reason: "is empty"}
	}
	if r.Type != "" && r.Type != want {
		return &ValidationError{Resource: want, ID: r.ID, Field: "type", Reason: "got " + r.Type}
	}
	if err := r.Attributes.Validate(); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			ve.Resource = want
			ve.ID = r.ID
			return ve
		}
		return &ValidationError{Resource: want, ID: r.ID, Reason: err.Error()}
	}
	return nil
}

// document is the response envelope.
type document struct {
	Data   json.RawMessage `json:"data"`
	Errors []ErrorObject   `json:"errors,omitempty"`
}

// writeDocument is the request envelope for POST and PATCH.
type writeDocument struct {
	Data writeResource `json:"data"`
}

type writeResource struct {
	Type          string        `json:"type"`
	ID            string        `json:"id,omitempty"`
	Attributes    any           `json:"attributes"`
	Relationships Relationships `json:"relationships,omitempty"`
}

func required(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}
