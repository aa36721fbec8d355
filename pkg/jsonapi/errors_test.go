package jsonapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleSingleErrorResponse(t *testing.T) {
	body := []byte(`{"errors": [{"status": "400",
                                 "code": "bad_request",
                                 "title": "Bad request",
                                 "detail": "Invalid name"}]}`)
	errorResponse := parseErrorResponse(400, body)
	if errorResponse == nil {
		t.Error("Expected error")
		t.FailNow()
	}
	if errorResponse.StatusCode != 400 {
		t.Errorf("Got status code %d, expected 400", errorResponse.StatusCode)
	}
	expectedError := "400, bad_request: Invalid name"
	if errorResponse.Error() != expectedError {
		t.Errorf("Got error '%s', expected %s",
			errorResponse.Error(), expectedError)
	}
	item := errorResponse.Errors[0]
	if item.Status != "400" || item.Title != "Bad request" {
		t.Error("Could not parse error data properly")
	}
}

func TestHandleDoubleErrorResponse(t *testing.T) {
	body := []byte(`{"errors": [{"status": "409",
                                 "code": "conflict",
                                 "detail": "name is already taken"},
                                {"status": "409",
                                 "code": "conflict",
                                 "detail": "slug is already taken"}]}`)
	errorResponse := parseErrorResponse(409, body)
	if errorResponse == nil {
		t.Error("Expected error")
		t.FailNow()
	}
	expectedError := "409, conflict: name is already taken, conflict: " +
		"slug is already taken"
	if errorResponse.Error() != expectedError {
		t.Errorf("Got error '%s', expected %s",
			errorResponse.Error(), expectedError)
	}
}

func TestNoErrorBelow400(t *testing.T) {
	assert.Nil(t, parseErrorResponse(204, nil))
	assert.Nil(t, parseRetryResponse(&http.Response{StatusCode: 500}))
}

func TestRetryResponse(t *testing.T) {
	testCases := []struct {
		statusCode int
		retryAfter string
		expected   int
	}{
		{429, "3", 3},
		{429, "soon", 1},
		{502, "", 10},
		{503, "60", 10},
		{504, "", 10},
	}
	for _, testCase := range testCases {
		response := &http.Response{
			StatusCode: testCase.statusCode,
			Header:     http.Header{},
		}
		response.Header.Set("Retry-After", testCase.retryAfter)
		retryError := parseRetryResponse(response)
		if assert.NotNil(t, retryError) {
			assert.Equal(t, testCase.expected, retryError.RetryAfter)
		}
	}
}

func TestDecodeErrorMessages(t *testing.T) {
	cause := errors.New("boom")
	err := &DecodeError{Type: "widgets", Id: "1", Field: "size", Err: cause}
	assert.Equal(t, "could not decode widgets/1, field 'size': boom", err.Error())
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", err), cause))

	err = &DecodeError{Type: "widgets", Id: "1", Err: cause}
	assert.Equal(t, "could not decode widgets/1: boom", err.Error())

	assert.Equal(t, "data error: Parse Error",
		(&DataError{Message: "Parse Error"}).Error())
	assert.Equal(t, "attribute error: No Id found",
		(&AttributeError{Message: "No Id found"}).Error())
}
