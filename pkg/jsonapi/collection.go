package jsonapi

import (
	"context"
	"errors"
)

/*
FindNext
Return the next page of a paginated collection as pointed to by the
`.links.next` field of the response. Links starting with '/' are resolved
against the connection's Host. The link already carries the query string, so
only the public flag of 'query' is used.
*/
func (m *Model[T]) FindNext(
	ctx context.Context, page Documents[T], query Query,
) (Documents[T], error) {
	if page.Links.Next == "" {
		return Documents[T]{}, errors.New("no next page")
	}
	query = m.query(query)
	return m.list(ctx, page.Links.Next, nil, query.Public())
}

/*
FindPrevious
Return the previous page of a paginated collection as pointed to by the
`.links.prev` field of the response.
*/
func (m *Model[T]) FindPrevious(
	ctx context.Context, page Documents[T], query Query,
) (Documents[T], error) {
	if page.Links.Previous == "" {
		return Documents[T]{}, errors.New("no previous page")
	}
	query = m.query(query)
	return m.list(ctx, page.Links.Previous, nil, query.Public())
}
