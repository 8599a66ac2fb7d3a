package pco

import (
	"context"
	"net/url"
)

// People lists people, filtered by name or email when query is non-empty.
func (c *Client) People(ctx context.Context, query string) ([]Person, error) {
	var params url.Values
	if query != "" {
		params = url.Values{"where[search_name_or_email]": {query}}
	}
	return getList[PersonAttributes](ctx, c, "people", "/people/v2/people", params)
}

// Person fetches one person.
func (c *Client) Person(ctx context.Context, personID string) (Person, error) {
	id, err := seg("person id", personID)
	if err != nil {
		return Person{}, err
	}
	return getOne[PersonAttributes](ctx, c, "person", "/people/v2/people/"+id, nil)
}
