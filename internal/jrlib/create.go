package jrlib

import (
	"context"
	"fmt"
	"io"

	"github.com/jsonresource/cli/internal/jrlib/config"
	"github.com/jsonresource/cli/pkg/jsonapi"
)

type CreateCommandArguments struct {
	Type       string
	Attributes []string
	Include    string
}

// CreateCommand creates a resource from 'key=value' attributes and prints
// the server's copy.
func CreateCommand(
	ctx context.Context,
	cfg *config.Config,
	api jsonapi.Connection,
	out io.Writer,
	arguments CreateCommandArguments,
) error {
	if arguments.Type == "" {
		return fmt.Errorf("please provide a resource type")
	}
	attributes, err := ParseAttributes(arguments.Attributes)
	if err != nil {
		return err
	}
	model := ModelFor(cfg, &api, arguments.Type)

	record := jsonapi.Record{"type": model.Type}
	for key, value := range attributes {
		record[key] = value
	}

	created, err := model.Create(ctx, record, jsonapi.Query{Include: arguments.Include})
	if err != nil {
		return fmt.Errorf("could not create %s: %w", model.Type, err)
	}
	return printJSON(out, created)
}

type UpdateCommandArguments struct {
	Type       string
	Id         string
	Attributes []string
	Include    string
}

/*
UpdateCommand
Sends the resource, id and type plus the given attributes, to the server.
Attributes that are not mentioned are left out of the request body. Prints
what was sent.
*/
func UpdateCommand(
	ctx context.Context,
	cfg *config.Config,
	api jsonapi.Connection,
	out io.Writer,
	arguments UpdateCommandArguments,
) error {
	if arguments.Type == "" {
		return fmt.Errorf("please provide a resource type")
	}
	attributes, err := ParseAttributes(arguments.Attributes)
	if err != nil {
		return err
	}
	if len(attributes) == 0 {
		return fmt.Errorf("nothing to update, please provide 'key=value' attributes")
	}
	model := ModelFor(cfg, &api, arguments.Type)

	record := jsonapi.Record{"id": arguments.Id, "type": model.Type}
	for key, value := range attributes {
		record[key] = value
	}

	updated, err := model.Update(ctx, record, jsonapi.Query{Include: arguments.Include})
	if err != nil {
		return fmt.Errorf("could not update %s/%s: %w", model.Type, arguments.Id, err)
	}
	return printJSON(out, updated)
}
