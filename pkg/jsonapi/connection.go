package jsonapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// Request is everything the transport needs to issue one HTTP call.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Params  url.Values
	Body    []byte
}

type Connection struct {
	Host  string
	Token string
	// AuthToken, when set, supplies the Authorization header verbatim
	// instead of "Bearer <Token>".
	AuthToken func() string
	Client    http.Client
	Headers   map[string]string
	// The zero value logs nothing
	Logger zerolog.Logger

	// Used for testing
	RequestMethod func(ctx context.Context, req Request) ([]byte, error)
}

// Authorization returns the value of the Authorization header for
// non-public requests.
func (c *Connection) Authorization() string {
	if c.AuthToken != nil {
		return c.AuthToken()
	}
	return "Bearer " + c.Token
}

/*
Do performs a single request and returns the response body. Nothing is
retried: throttling and unavailability surface as *RetryError, other error
statuses as *Error and redirects as *RedirectError. Network errors are
returned as they are.
*/
func (c *Connection) Do(ctx context.Context, req Request) ([]byte, error) {
	if c.RequestMethod != nil {
		return c.RequestMethod(ctx, req)
	}

	path := req.URL
	if strings.HasPrefix(path, "/") {
		path = strings.TrimRight(c.Host, "/") + path
	}
	if len(req.Params) > 0 {
		separator := "?"
		if strings.Contains(path, "?") {
			separator = "&"
		}
		path = path + separator + req.Params.Encode()
	}

	client := c.Client
	if client.CheckRedirect == nil {
		client.CheckRedirect = func(
			req *http.Request, via []*http.Request,
		) error {
			return &RedirectError{Location: req.URL.String()}
		}
	}

	var payload io.Reader
	if req.Body != nil {
		payload = bytes.NewReader(req.Body)
	}
	requestObj, err := http.NewRequestWithContext(ctx, req.Method, path, payload)
	if err != nil {
		return nil, err
	}

	for header, value := range c.Headers {
		requestObj.Header.Set(header, value)
	}
	for header, value := range req.Headers {
		requestObj.Header.Set(header, value)
	}
	if requestObj.Header.Get("Content-Type") == "" {
		requestObj.Header.Set("Content-Type", "application/vnd.api+json")
	}

	c.Logger.Debug().
		Str("method", req.Method).
		Str("url", path).
		Msg("sending request")

	response, err := client.Do(requestObj)
	if err != nil {
		// A refused redirect comes back wrapped in *url.Error
		var redirect *RedirectError
		if errors.As(err, &redirect) {
			return nil, redirect
		}
		c.Logger.Debug().Err(err).Str("url", path).Msg("request failed")
		return nil, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	c.Logger.Debug().
		Str("method", req.Method).
		Str("url", path).
		Int("status", response.StatusCode).
		Int("bytes", len(body)).
		Msg("received response")

	retryResponse := parseRetryResponse(response)
	if retryResponse != nil {
		return nil, retryResponse
	}
	errorResponse := parseErrorResponse(response.StatusCode, body)
	if errorResponse != nil {
		return nil, errorResponse
	}

	return body, nil
}

