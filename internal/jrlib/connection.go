package jrlib

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jsonresource/cli/internal/jrlib/config"
	"github.com/jsonresource/cli/pkg/jsonapi"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

const Version = "0.1.0"

const maxRetries = 3

func NewConnection(
	hostname, token string, client http.Client, logger zerolog.Logger,
) jsonapi.Connection {
	return jsonapi.Connection{
		Host:   hostname,
		Token:  token,
		Client: client,
		Logger: logger,
		Headers: map[string]string{
			"User-Agent": "jr/" + Version,
		},
	}
}

/*
ModelFor
Build a schema-less model for resource type 'typ'. When the local
configuration has a section for the type, its settings become the model's
root URL, query path and default query; otherwise the type name is used as
the query path under the connection's host.
*/
func ModelFor(
	cfg *config.Config, api *jsonapi.Connection, typ string,
) *jsonapi.Model[jsonapi.Record] {
	model := &jsonapi.Model[jsonapi.Record]{
		API:       api,
		QueryPath: typ,
		Type:      typ,
	}
	if cfg == nil {
		return model
	}
	cfgModel := cfg.FindModel(typ)
	if cfgModel == nil {
		return model
	}

	model.RootURL = cfgModel.RootURL
	if cfgModel.QueryPath != "" {
		model.QueryPath = cfgModel.QueryPath
	}
	if cfgModel.Type != "" {
		model.Type = cfgModel.Type
	}

	defaults := jsonapi.NewQuery()
	if cfgModel.Limit > 0 {
		defaults.Page.Limit = cfgModel.Limit
	}
	if len(cfgModel.Filters) > 0 {
		defaults.Filters = make(map[string]string, len(cfgModel.Filters))
		for key, value := range cfgModel.Filters {
			defaults.Filters[key] = value
		}
	}
	defaults.Include = cfgModel.Include
	defaults.Sort = cfgModel.Sort
	if cfgModel.Public {
		isPublic := true
		defaults.IsPublic = &isPublic
	}
	model.Defaults = defaults
	return model
}

// Replaced in tests
var sleep = func(ctx context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

/*
Run 'do'. If the error returned by 'do' is a jsonapi.RetryError, sleep the
number of seconds indicated by the error and try again, at most maxRetries
times. Meanwhile, inform the user of what's going on using 'send'.
*/
func handleThrottling(
	ctx context.Context, do func() error, initialMsg string, send func(string),
) error {
	for attempt := 0; ; attempt++ {
		if len(initialMsg) > 0 {
			send(initialMsg)
		}
		err := do()
		if err == nil {
			return nil
		}
		var e *jsonapi.RetryError
		if !errors.As(err, &e) || attempt >= maxRetries {
			return err
		}
		retryAfter := e.RetryAfter
		if isatty.IsTerminal(os.Stdout.Fd()) {
			for retryAfter > 0 {
				send(fmt.Sprintf(
					"Throttled, will retry after %d seconds", retryAfter,
				))
				if err := sleep(ctx, time.Second); err != nil {
					return err
				}
				retryAfter -= 1
			}
		} else {
			send(fmt.Sprintf(
				"Throttled, will retry after %d seconds", retryAfter,
			))
			if err := sleep(ctx, time.Duration(retryAfter)*time.Second); err != nil {
				return err
			}
		}
	}
}
