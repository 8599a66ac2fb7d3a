package observe

// Operation kinds.
const (
	KindRequest  = "request"
	KindQuery    = "query"
	KindMutation = "mutation"
)

// OperationMeta describes one data-access operation for telemetry.
type OperationMeta struct {
	Kind     string // request|query|mutation
	Resource string // resource family, e.g. "plans"
	Method   string // HTTP method for requests (optional)
	Endpoint string // endpoint path for requests (optional)
}

// SpanName returns the deterministic span name for this operation.
// Format: pco.<kind>.<resource> or pco.<kind>
func (m OperationMeta) SpanName() string {
	kind := m.Kind
	if kind == "" {
		kind = KindRequest
	}
	if m.Resource != "" {
		return "pco." + kind + "." + m.Resource
	}
	return "pco." + kind
}
