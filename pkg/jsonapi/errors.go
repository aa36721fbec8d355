package jsonapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

/*
Error type for {json:api} error responses (status >= 400).

You can inspect the contents of the error response with errors.As.
Example:

	    _, err := widgets.FindOne(ctx, "7", jsonapi.NewQuery())
	    var e *jsonapi.Error
	    if errors.As(err, &e) {
			// "Smartly" inspect the contents of the error
			for _, errorItem := range e.Errors {
				if errorItem.Status == "404" {
					fmt.Println("Something was not found")
				}
			}
	    }
*/
type Error struct {
	StatusCode int
	Errors     []ErrorItem `json:"errors"`
}

type ErrorItem struct {
	Status string `json:"status,omitempty"`
	Code   string `json:"code,omitempty"`
	Title  string `json:"title,omitempty"`
	Detail string `json:"detail,omitempty"`
	Source struct {
		Pointer   string `json:"pointer,omitempty"`
		Parameter string `json:"parameter,omitempty"`
	} `json:"source,omitempty"`
}

func (e *Error) Error() string {
	// 400:
	result := make([]string, 0, len(e.Errors)+1)
	result = append(result, fmt.Sprint(e.StatusCode))
	for _, errorItem := range e.Errors {
		result = append(result,
			fmt.Sprintf("%s: %s", errorItem.Code, errorItem.Detail))
	}
	return strings.Join(result, ", ")
}

func parseErrorResponse(statusCode int, body []byte) *Error {
	if statusCode < 400 {
		return nil
	}
	errorResponse := Error{StatusCode: statusCode}

	// Intentionally ignore parse errors
	_ = json.Unmarshal(body, &errorResponse)

	return &errorResponse
}

type RedirectError struct {
	Location string
}

func (m *RedirectError) Error() string {
	return "jsonapi does not handle redirects. You can access the Location " +
		"header with " +
		"`var e *jsonapi.RedirectError; errors.As(err, &e); e.Location`"
}

/*
RetryError is returned for throttled (429) or unavailable (502, 503, 504)
responses. The connection never retries on its own; RetryAfter is the number
of seconds the server (or a sane default) suggests waiting.
*/
type RetryError struct {
	StatusCode int
	RetryAfter int
}

func (err RetryError) Error() string {
	return fmt.Sprintf(
		"Response error code %d, retry after %d", err.StatusCode, err.RetryAfter,
	)
}

func parseRetryResponse(response *http.Response) *RetryError {
	if response.StatusCode != 429 &&
		response.StatusCode != 502 &&
		response.StatusCode != 503 &&
		response.StatusCode != 504 {
		return nil
	}
	if response.StatusCode == 502 ||
		response.StatusCode == 503 ||
		response.StatusCode == 504 {
		return &RetryError{response.StatusCode, 10}
	}
	retryAfter, err := strconv.Atoi(response.Header.Get("Retry-After"))
	if err != nil {
		return &RetryError{response.StatusCode, 1}
	}
	return &RetryError{response.StatusCode, retryAfter}
}

// DataError means the response body could not be understood as a document.
type DataError struct {
	Message string
}

func (e *DataError) Error() string {
	return "data error: " + e.Message
}

// AttributeError means a required field or relationship is missing.
type AttributeError struct {
	Message string
}

func (e *AttributeError) Error() string {
	return "attribute error: " + e.Message
}

/*
DecodeError is returned when a flattened resource object does not fit the
target model, either because a value has the wrong JSON type or because the
decoded model fails validation. Field is the JSON name of the offending field
when it can be determined.
*/
type DecodeError struct {
	Type  string
	Id    string
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	resource := fmt.Sprintf("%s/%s", e.Type, e.Id)
	if e.Field != "" {
		return fmt.Sprintf("could not decode %s, field '%s': %s",
			resource, e.Field, e.Err)
	}
	return fmt.Sprintf("could not decode %s: %s", resource, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
