package jrlib

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jsonresource/cli/internal/jrlib/config"
	"github.com/jsonresource/cli/pkg/jsonapi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelFor(t *testing.T) {
	cfg := getTestConfig(config.Model{
		Name:      "widgets",
		RootURL:   "https://api.example.com/v1",
		QueryPath: "v2/gadgets",
		Type:      "gadgets",
		Include:   "owner",
		Sort:      "-created",
		Limit:     50,
		Public:    true,
		Filters:   map[string]string{"color": "red"},
	})
	api := NewConnection("https://api.example.com", "t", getTestHTTPClient(t),
		zerolog.Nop())

	model := ModelFor(cfg, &api, "widgets")
	assert.Same(t, &api, model.API)
	assert.Equal(t, "https://api.example.com/v1", model.RootURL)
	assert.Equal(t, "v2/gadgets", model.QueryPath)
	assert.Equal(t, "gadgets", model.Type)
	assert.Equal(t, jsonapi.Page{Limit: 50, Offset: 0}, model.Defaults.Page)
	assert.Equal(t, "owner", model.Defaults.Include)
	assert.Equal(t, "-created", model.Defaults.Sort)
	assert.True(t, model.Defaults.Public())
	assert.Equal(t, map[string]string{"color": "red"}, model.Defaults.Filters)

	// The defaults are a copy of the configuration
	model.Defaults.Filters["color"] = "blue"
	assert.Equal(t, "red", cfg.FindModel("widgets").Filters["color"])

	unknown := ModelFor(cfg, &api, "users")
	assert.Equal(t, "users", unknown.QueryPath)
	assert.Equal(t, "users", unknown.Type)
	assert.Equal(t, "", unknown.RootURL)
	assert.Equal(t, jsonapi.Query{}, unknown.Defaults)
}

func TestNewConnection(t *testing.T) {
	api := NewConnection("https://api.example.com", "t0k3n",
		getTestHTTPClient(t), zerolog.Nop())
	assert.Equal(t, "https://api.example.com", api.Host)
	assert.Equal(t, "Bearer t0k3n", api.Authorization())
	assert.Equal(t, "jr/"+Version, api.Headers["User-Agent"])
}

func getTestHTTPClient(t *testing.T) http.Client {
	client, err := GetClient("")
	require.NoError(t, err)
	return client
}

func TestGetClientWithBadCertificate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0644))

	_, err := GetClient(path)
	assert.EqualError(t, err,
		"could not load certificates from file '"+path+"'")

	_, err = GetClient(filepath.Join(t.TempDir(), "missing.pem"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func withSleep(t *testing.T) *time.Duration {
	var slept time.Duration
	original := sleep
	sleep = func(ctx context.Context, duration time.Duration) error {
		slept += duration
		return ctx.Err()
	}
	t.Cleanup(func() { sleep = original })
	return &slept
}

func TestHandleThrottling(t *testing.T) {
	slept := withSleep(t)
	calls := 0
	var messages []string
	err := handleThrottling(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &jsonapi.RetryError{StatusCode: 429, RetryAfter: 2}
		}
		return nil
	}, "working", func(msg string) { messages = append(messages, msg) })

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 4*time.Second, *slept)
	assert.Equal(t, "working", messages[0])
	assert.Contains(t, messages, "Throttled, will retry after 2 seconds")
}

func TestHandleThrottlingGivesUp(t *testing.T) {
	withSleep(t)
	calls := 0
	retryError := &jsonapi.RetryError{StatusCode: 503}
	err := handleThrottling(context.Background(), func() error {
		calls++
		return retryError
	}, "", func(string) {})

	assert.Same(t, retryError, err)
	assert.Equal(t, maxRetries+1, calls)
}

func TestHandleThrottlingOtherErrors(t *testing.T) {
	withSleep(t)
	calls := 0
	other := errors.New("boom")
	err := handleThrottling(context.Background(), func() error {
		calls++
		return other
	}, "", func(string) {})

	assert.Same(t, other, err)
	assert.Equal(t, 1, calls)
}

func TestHandleThrottlingCancelled(t *testing.T) {
	withSleep(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := handleThrottling(ctx, func() error {
		return &jsonapi.RetryError{StatusCode: 429, RetryAfter: 1}
	}, "", func(string) {})

	assert.ErrorIs(t, err, context.Canceled)
}
