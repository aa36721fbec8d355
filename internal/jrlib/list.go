package jrlib

import (
	"context"
	"fmt"
	"io"

	"github.com/jsonresource/cli/internal/jrlib/config"
	"github.com/jsonresource/cli/pkg/jsonapi"
)

type ListCommandArguments struct {
	Type    string
	Filters []string
	Include string
	Sort    string
	Limit   int
	Offset  int
	Path    string
	Public  bool
	// Follow 'next' links until the last page
	All bool
	// Print the response's 'meta' after the records
	Meta bool
}

/*
ListCommand
Print a page (or, with All, every page) of resources of a type as a JSON
array. Resources side-loaded through 'include' are printed after the
primary ones under an "included" key.
*/
func ListCommand(
	ctx context.Context,
	cfg *config.Config,
	api jsonapi.Connection,
	out io.Writer,
	arguments ListCommandArguments,
) error {
	if arguments.Type == "" {
		return fmt.Errorf("please provide a resource type")
	}
	filters, err := ParseFilters(arguments.Filters)
	if err != nil {
		return err
	}

	model := ModelFor(cfg, &api, arguments.Type)
	model.Store = jsonapi.NewStore()

	query := jsonapi.Query{
		Page:    jsonapi.Page{Limit: arguments.Limit, Offset: arguments.Offset},
		Include: arguments.Include,
		Sort:    arguments.Sort,
		Path:    arguments.Path,
	}
	if len(filters) > 0 {
		query.Filters = filters
	}
	if arguments.Public {
		isPublic := true
		query.IsPublic = &isPublic
	}

	var page jsonapi.Documents[jsonapi.Record]
	err = handleThrottling(ctx, func() error {
		var err error
		page, err = model.FindPage(ctx, query)
		return err
	}, "", func(string) {})
	if err != nil {
		return err
	}

	records := page.Data
	types := includedTypes(nil, page.IncludedRecords)
	for arguments.All && page.Links.Next != "" {
		current := page
		err = handleThrottling(ctx, func() error {
			var err error
			page, err = model.FindNext(ctx, current, query)
			return err
		}, "", func(string) {})
		if err != nil {
			return err
		}
		records = append(records, page.Data...)
		types = includedTypes(types, page.IncludedRecords)
	}

	if !arguments.Meta && model.Store.Len() == 0 {
		return printJSON(out, records)
	}
	result := map[string]interface{}{"data": records}
	if arguments.Meta {
		result["meta"] = page.Meta
	}
	if model.Store.Len() > 0 {
		included := []jsonapi.Record{}
		for _, typ := range types {
			included = append(included, model.Store.OfType(typ)...)
		}
		result["included"] = included
	}
	return printJSON(out, result)
}

// Appends the types of 'included' missing from 'types', in order of first
// appearance
func includedTypes(types []string, included []jsonapi.Record) []string {
	for _, record := range included {
		if !stringSliceContains(types, record.GetType()) {
			types = append(types, record.GetType())
		}
	}
	return types
}

func stringSliceContains(haystack []string, needle string) bool {
	for _, item := range haystack {
		if item == needle {
			return true
		}
	}
	return false
}
