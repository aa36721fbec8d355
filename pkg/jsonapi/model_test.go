package jsonapi

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestModel(mockData MockData) (*Model[widget], *Connection) {
	api := GetTestConnection(mockData)
	api.Token = "secret"
	return &Model[widget]{
		API:       &api,
		QueryPath: "widgets",
		Type:      "widgets",
	}, &api
}

const defaultParams = "page%5Blimit%5D=20&page%5Boffset%5D=0"

func TestFindOne(t *testing.T) {
	mockData := MockData{
		"/widgets/7?" + defaultParams: &MockEndpoint{Requests: []MockRequest{{
			Response: MockResponse{Text: `{"data": [{"id": "7",
			                                         "type": "widgets",
			                                         "attributes": {"name": "Bolt"}}],
			                               "meta": {"count": 1}}`},
		}}},
	}
	widgets, _ := getTestModel(mockData)

	result, err := widgets.FindOne(context.Background(), "7", NewQuery())
	require.NoError(t, err)
	assert.Equal(t, widget{Id: "7", Type: "widgets", Name: "Bolt"}, result)

	request := mockData["/widgets/7?"+defaultParams].Requests[0].Request
	assert.Equal(t, "GET", request.Method)
	assert.Nil(t, request.Payload)
	assert.Equal(t, map[string]string{
		"Accept":        "application/vnd.api+json;version=1",
		"Content-Type":  "application/vnd.api+json;version=1",
		"Authorization": "Bearer secret",
	}, request.Headers)
}

func TestFind(t *testing.T) {
	mockData := MockData{
		"/widgets": &MockEndpoint{Requests: []MockRequest{{
			Response: MockResponse{Text: `{"data": [
				{"type": "widgets", "id": "1", "attributes": {"name": "One"}},
				{"type": "widgets", "id": "2", "attributes": {"name": "Two"}}
			], "meta": {"total": 2}}`},
		}}},
	}
	widgets, _ := getTestModel(mockData)

	query := NewQuery()
	query.Filters = map[string]string{"color": "red"}
	query.Sort = "name"
	result, meta, err := widgets.Find(context.Background(), query)
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, "One", result[0].Name)
	assert.Equal(t, "Two", result[1].Name)
	assert.Equal(t, json.Number("2"), meta["total"])

	request := mockData["/widgets"].Requests[0].Request
	assert.Equal(t, "GET", request.Method)
	assert.Equal(t,
		"filter%5Bcolor%5D=red&"+defaultParams+"&sort=name",
		request.Params)
}

func TestFindEmptyCollection(t *testing.T) {
	mockData := MockData{
		"/widgets": &MockEndpoint{Requests: []MockRequest{{
			Response: MockResponse{Text: `{"data": []}`},
		}}},
	}
	widgets, _ := getTestModel(mockData)

	result, meta, err := widgets.Find(context.Background(), NewQuery())
	require.NoError(t, err)
	assert.Equal(t, []widget{}, result)
	assert.Equal(t, Meta{}, meta)
}

func TestFindWithPathAndDefaults(t *testing.T) {
	mockData := MockData{
		"/users/1/widgets": &MockEndpoint{Requests: []MockRequest{{
			Response: MockResponse{Text: `{"data": []}`},
		}}},
	}
	widgets, _ := getTestModel(mockData)
	isPublic := true
	widgets.Defaults = Query{
		Page:     Page{Limit: 5},
		Sort:     "name",
		IsPublic: &isPublic,
	}

	_, _, err := widgets.Find(context.Background(), Query{Path: "users/1/widgets"})
	require.NoError(t, err)

	request := mockData["/users/1/widgets"].Requests[0].Request
	assert.Equal(t,
		"page%5Blimit%5D=5&page%5Boffset%5D=0&sort=name", request.Params)
	assert.Equal(t, "Public", request.Headers["Authorization"])
}

func TestFindOffsetKeepsDefaultLimit(t *testing.T) {
	testCases := []struct {
		defaults Query
		page     Page
		expected string
	}{
		{Query{}, Page{Offset: 40},
			"page%5Blimit%5D=20&page%5Boffset%5D=40"},
		{Query{Page: Page{Limit: 5, Offset: 10}}, Page{Offset: 40},
			"page%5Blimit%5D=5&page%5Boffset%5D=40"},
		{Query{Page: Page{Limit: 5, Offset: 10}}, Page{Limit: 7},
			"page%5Blimit%5D=7&page%5Boffset%5D=0"},
	}
	for _, testCase := range testCases {
		mockData := MockData{
			"/widgets": &MockEndpoint{Requests: []MockRequest{{
				Response: MockResponse{Text: `{"data": []}`},
			}}},
		}
		widgets, _ := getTestModel(mockData)
		widgets.Defaults = testCase.defaults

		_, _, err := widgets.Find(context.Background(), Query{Page: testCase.page})
		require.NoError(t, err)
		assert.Equal(t, testCase.expected,
			mockData["/widgets"].Requests[0].Request.Params, "%v", testCase.page)
	}
}

func TestCreate(t *testing.T) {
	mockData := MockData{
		"/widgets?include=owner": &MockEndpoint{Requests: []MockRequest{{
			Response: MockResponse{Text: `{
				"data": {"type": "widgets", "id": "9", "attributes": {"name": "Nut"}},
				"included": [{"type": "users", "id": "u1", "attributes": {"name": "Ann"}}]
			}`},
		}}},
	}
	widgets, _ := getTestModel(mockData)
	widgets.Store = NewStore()

	query := NewQuery()
	query.Include = "owner"
	query.Filters = map[string]string{"ignored": "yes"}
	result, err := widgets.Create(context.Background(), widget{Name: "Nut"}, query)
	require.NoError(t, err)
	assert.Equal(t, "9", result.Id)

	request := mockData["/widgets?include=owner"].Requests[0].Request
	assert.Equal(t, "POST", request.Method)
	assert.Equal(t, "", request.Params)
	equal, err := jsonEqual(request.Payload,
		[]byte(`{"data": {"type": "widgets", "attributes": {"name": "Nut"}}}`))
	require.NoError(t, err)
	assert.True(t, equal, string(request.Payload))

	owner, found := widgets.Store.Get("users", "u1")
	assert.True(t, found)
	assert.Equal(t, "Ann", owner["name"])
}

func TestUpdate(t *testing.T) {
	mockData := MockData{
		"/widgets/7": &MockEndpoint{Requests: []MockRequest{{
			Response: MockResponse{Text: `{"data": {"type": "widgets",
			                                        "id": "7",
			                                        "attributes": {"name": "Server"}}}`},
		}}},
	}
	widgets, _ := getTestModel(mockData)

	input := widget{Id: "7", Type: "widgets", Name: "Local"}
	result, err := widgets.Update(context.Background(), input, NewQuery())
	require.NoError(t, err)
	assert.Equal(t, input, result)

	request := mockData["/widgets/7"].Requests[0].Request
	assert.Equal(t, "PUT", request.Method)
	equal, err := jsonEqual(request.Payload,
		[]byte(`{"id": "7", "type": "widgets", "name": "Local"}`))
	require.NoError(t, err)
	assert.True(t, equal, string(request.Payload))
}

func TestUpdateWithoutId(t *testing.T) {
	called := false
	api := Connection{RequestMethod: func(
		ctx context.Context, req Request,
	) ([]byte, error) {
		called = true
		return nil, nil
	}}
	widgets := Model[widget]{API: &api, QueryPath: "widgets"}

	_, err := widgets.Update(context.Background(), widget{Name: "x"}, NewQuery())

	var attributeError *AttributeError
	require.True(t, errors.As(err, &attributeError), "got %v", err)
	assert.Equal(t, "No Id found", attributeError.Message)
	assert.False(t, called)
}

func TestUpdateInvalidResponse(t *testing.T) {
	mockData := MockData{
		"/widgets/7": &MockEndpoint{Requests: []MockRequest{{
			Response: MockResponse{Text: `<html>oops</html>`},
		}}},
	}
	widgets, _ := getTestModel(mockData)

	_, err := widgets.Update(context.Background(), widget{Id: "7"}, NewQuery())
	var dataError *DataError
	assert.True(t, errors.As(err, &dataError), "got %v", err)
}

func TestDelete(t *testing.T) {
	mockData := MockData{
		"https://api.example.com/v1/gadgets/a%2Fb": &MockEndpoint{
			Requests: []MockRequest{{Response: MockResponse{Text: ""}}},
		},
	}
	widgets, _ := getTestModel(mockData)
	widgets.RootURL = "https://api.example.com/v1/"

	err := widgets.Delete(context.Background(), "gadgets", "a/b")
	require.NoError(t, err)

	request := mockData["https://api.example.com/v1/gadgets/a%2Fb"].Requests[0].Request
	assert.Equal(t, "DELETE", request.Method)
	assert.Equal(t, "Bearer secret", request.Headers["Authorization"])
}

func TestTransportErrorsAreNotWrapped(t *testing.T) {
	transportError := &Error{StatusCode: 404}
	mockData := MockData{
		"/widgets/1": &MockEndpoint{Requests: []MockRequest{{
			Response: MockResponse{Err: transportError},
		}}},
	}
	widgets, _ := getTestModel(mockData)

	_, err := widgets.FindOne(context.Background(), "1", Query{})
	assert.Same(t, transportError, err)
}

func TestAuthTokenOverridesToken(t *testing.T) {
	widgets, api := getTestModel(MockData{})
	api.AuthToken = func() string { return "Token abc" }

	headers := widgets.Headers(false)
	assert.Equal(t, "Token abc", headers["Authorization"])
	assert.Equal(t, "Public", widgets.Headers(true)["Authorization"])
}
