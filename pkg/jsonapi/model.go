package jsonapi

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
)

const MediaType = "application/vnd.api+json;version=1"

/*
Modelable is implemented by every typed model. GetId returns an empty string
for models that have not been persisted yet; AsDocument returns the payload
sent when creating the model, usually a PayloadSingular.
*/
type Modelable interface {
	GetId() string
	AsDocument() interface{}
}

/*
Model
Per-type configuration plus the CRUD operations every resource type shares.

	type Widget struct {
		Id   string `json:"id"`
		Type string `json:"type"`
		Name string `json:"name" validate:"required"`
	}

	func (w Widget) GetId() string { return w.Id }
	func (w Widget) AsDocument() interface{} { ... }

	widgets := jsonapi.Model[Widget]{
		API:       &api,
		RootURL:   "https://api.example.com/v1",
		QueryPath: "widgets",
		Type:      "widgets",
	}
	widget, err := widgets.FindOne(ctx, "7", jsonapi.NewQuery())

RootURL defaults to API.Host. Defaults is layered under every caller-supplied
query with Query.Merge. When Store is set, side-loaded resources of every
response are upserted into it.
*/
type Model[T Modelable] struct {
	API       *Connection
	RootURL   string
	QueryPath string
	Type      string
	Defaults  Query
	Store     *Store
}

// Headers returns the headers sent with every request of this model.
func (m *Model[T]) Headers(isPublic bool) map[string]string {
	authorization := "Public"
	if !isPublic {
		authorization = m.API.Authorization()
	}
	return map[string]string{
		"Accept":        MediaType,
		"Content-Type":  MediaType,
		"Authorization": authorization,
	}
}

/*
Create
POSTs the model's AsDocument payload to <root>/<query path>. Of the query only
'include' is sent, directly on the URL. Returns the server's copy.
*/
func (m *Model[T]) Create(ctx context.Context, model T, query Query) (T, error) {
	var result T
	query = m.query(query)

	payload, err := json.Marshal(model.AsDocument())
	if err != nil {
		return result, err
	}

	body, err := m.API.Do(ctx, Request{
		Method:  "POST",
		URL:     withInclude(m.url(m.QueryPath), query.Include),
		Headers: m.Headers(query.Public()),
		Body:    payload,
	})
	if err != nil {
		return result, err
	}

	document, err := DecodeDocument[T](body)
	if err != nil {
		return result, err
	}
	m.sideLoad(document.IncludedRecords)
	return document.Data, nil
}

/*
Find
Returns one page of models along with the response's 'meta'. The request goes
to query.Path when set, <root>/<query path> otherwise.
*/
func (m *Model[T]) Find(ctx context.Context, query Query) ([]T, Meta, error) {
	documents, err := m.FindPage(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	return documents.Data, documents.Meta, nil
}

// FindPage is Find returning the whole decoded response, pagination links
// included.
func (m *Model[T]) FindPage(ctx context.Context, query Query) (Documents[T], error) {
	query = m.query(query)
	path := m.QueryPath
	if query.Path != "" {
		path = query.Path
	}
	return m.list(ctx, m.url(path), query.Values(), query.Public())
}

/*
FindOne
GETs <root>/<query path>/<id> with the full encoded query.
*/
func (m *Model[T]) FindOne(ctx context.Context, id string, query Query) (T, error) {
	var result T
	query = m.query(query)

	body, err := m.API.Do(ctx, Request{
		Method:  "GET",
		URL:     m.url(m.QueryPath, url.PathEscape(id)),
		Headers: m.Headers(query.Public()),
		Params:  query.Values(),
	})
	if err != nil {
		return result, err
	}

	document, err := DecodeDocument[T](body)
	if err != nil {
		return result, err
	}
	m.sideLoad(document.IncludedRecords)
	return document.Data, nil
}

/*
Update
PUTs the model itself (not its AsDocument payload) to
<root>/<query path>/<id>. The response is decoded to make sure it is a valid
document, but the model passed in is what gets returned; fetch again if the
server's copy is needed.
*/
func (m *Model[T]) Update(ctx context.Context, model T, query Query) (T, error) {
	id := model.GetId()
	if id == "" {
		return model, &AttributeError{Message: "No Id found"}
	}
	query = m.query(query)

	payload, err := json.Marshal(model)
	if err != nil {
		return model, err
	}

	body, err := m.API.Do(ctx, Request{
		Method:  "PUT",
		URL:     withInclude(m.url(m.QueryPath, url.PathEscape(id)), query.Include),
		Headers: m.Headers(query.Public()),
		Body:    payload,
	})
	if err != nil {
		return model, err
	}

	document, err := DecodeDocument[T](body)
	if err != nil {
		return model, err
	}
	m.sideLoad(document.IncludedRecords)
	return model, nil
}

/*
Delete
DELETEs <root>/<type>/<id>. The response body is ignored.
*/
func (m *Model[T]) Delete(ctx context.Context, typ, id string) error {
	_, err := m.API.Do(ctx, Request{
		Method:  "DELETE",
		URL:     m.url(typ, url.PathEscape(id)),
		Headers: m.Headers(false),
	})
	return err
}

func (m *Model[T]) list(
	ctx context.Context, path string, params url.Values, isPublic bool,
) (Documents[T], error) {
	body, err := m.API.Do(ctx, Request{
		Method:  "GET",
		URL:     path,
		Headers: m.Headers(isPublic),
		Params:  params,
	})
	if err != nil {
		return Documents[T]{}, err
	}

	documents, err := DecodeDocuments[T](body)
	if err != nil {
		return documents, err
	}
	m.sideLoad(documents.IncludedRecords)
	return documents, nil
}

// Layers the caller's query over the defaults. A zero page means "not set"
// and a zero limit alone means "the default limit".
func (m *Model[T]) query(query Query) Query {
	result := m.Defaults
	if result.Page == (Page{}) {
		result.Page = Page{Limit: DefaultLimit, Offset: DefaultOffset}
	}
	if query.Page == (Page{}) {
		query.Page = result.Page
	} else if query.Page.Limit == 0 {
		query.Page.Limit = result.Page.Limit
	}
	result.Merge(query)
	return result
}

func (m *Model[T]) root() string {
	if m.RootURL != "" {
		return m.RootURL
	}
	return m.API.Host
}

// Joins path segments onto the root URL. Absolute URLs are used as they are.
func (m *Model[T]) url(parts ...string) string {
	if len(parts) > 0 && isAbsolute(parts[0]) {
		return strings.Join(parts, "/")
	}
	result := strings.TrimRight(m.root(), "/")
	for _, part := range parts {
		part = strings.Trim(part, "/")
		if part == "" {
			continue
		}
		result = result + "/" + part
	}
	return result
}

func (m *Model[T]) sideLoad(records []Record) {
	if m.Store == nil || len(records) == 0 {
		return
	}
	inserted := m.Store.Upsert(records...)
	m.API.Logger.Debug().
		Str("type", m.Type).
		Int("included", len(records)).
		Int("inserted", inserted).
		Msg("side-loaded included resources")
}

func withInclude(path, include string) string {
	if include == "" {
		return path
	}
	return path + "?" + url.Values{"include": []string{include}}.Encode()
}

func isAbsolute(path string) bool {
	return strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://")
}
