package jsonapi

import (
	"context"
	"fmt"
)

type CapturedRequest struct {
	Method  string
	Headers map[string]string
	Params  string
	Payload []byte
}
type MockResponse struct {
	Text     string
	Redirect string
	Err      error
}

type MockRequest struct {
	Response MockResponse
	Request  CapturedRequest
}

type MockEndpoint struct {
	Requests []MockRequest
	Count    int
}

type MockData map[string]*MockEndpoint

func (mockData *MockData) Get(path string) *MockRequest {
	endpoint, exists := (*mockData)[path]
	if !exists {
		return nil
	}
	if endpoint.Count >= len(endpoint.Requests) {
		return nil
	}
	endpoint.Count++
	return &endpoint.Requests[endpoint.Count-1]
}

/*
GetTestConnection returns a Connection whose requests are served from
'mockData'. Requests with parameters are matched on "<url>?<params>" first and
on the bare URL second.
*/
func GetTestConnection(mockData MockData) Connection {
	return Connection{
		RequestMethod: func(
			ctx context.Context, req Request,
		) ([]byte, error) {
			var mockRequest *MockRequest
			params := req.Params.Encode()
			if params != "" {
				mockRequest = mockData.Get(req.URL + "?" + params)
			}
			if mockRequest == nil {
				mockRequest = mockData.Get(req.URL)
			}
			if mockRequest == nil {
				return nil, fmt.Errorf("%s not found", req.URL)
			}
			mockRequest.Request.Method = req.Method
			mockRequest.Request.Headers = req.Headers
			mockRequest.Request.Params = params
			mockRequest.Request.Payload = req.Body

			if mockRequest.Response.Err != nil {
				return nil, mockRequest.Response.Err
			}
			if mockRequest.Response.Redirect == "" {
				return []byte(mockRequest.Response.Text), nil
			} else {
				return nil, &RedirectError{mockRequest.Response.Redirect}
			}
		},
	}
}
