package jrlib

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/jsonresource/cli/internal/jrlib/config"
)

// TypesCommand prints the resource types of the local configuration.
func TypesCommand(cfg *config.Config, out io.Writer) error {
	if cfg.Local == nil || len(cfg.Local.Models) == 0 {
		fmt.Fprintln(out, warningColor(
			"No resource types configured, add one with 'jr types add'",
		))
		return nil
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "NAME\tURL\tTYPE\tDEFAULTS")
	for _, model := range cfg.Local.Models {
		root := model.RootURL
		if root == "" {
			root = "<host>"
		}
		path := model.QueryPath
		if path == "" {
			path = model.Name
		}
		typ := model.Type
		if typ == "" {
			typ = model.Name
		}
		fmt.Fprintf(writer, "%s\t%s/%s\t%s\t%s\n",
			model.Name, strings.TrimRight(root, "/"), strings.Trim(path, "/"),
			typ, describeDefaults(model))
	}
	return writer.Flush()
}

func describeDefaults(model config.Model) string {
	var parts []string
	if model.Limit > 0 {
		parts = append(parts, fmt.Sprintf("limit=%d", model.Limit))
	}
	if model.Include != "" {
		parts = append(parts, "include="+model.Include)
	}
	if model.Sort != "" {
		parts = append(parts, "sort="+model.Sort)
	}
	if model.Public {
		parts = append(parts, "public")
	}
	keys := make([]string, 0, len(model.Filters))
	for key := range model.Filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("filter[%s]=%s", key, model.Filters[key]))
	}
	return strings.Join(parts, " ")
}

type AddTypeCommandArguments struct {
	Model   config.Model
	Filters []string
}

// AddTypeCommand stores a resource type in the local configuration,
// replacing one with the same name.
func AddTypeCommand(cfg *config.Config, out io.Writer, arguments AddTypeCommandArguments) error {
	model := arguments.Model
	if model.Name == "" {
		return fmt.Errorf("please provide a name for the resource type")
	}
	if model.Limit < 0 {
		return fmt.Errorf("invalid limit %d", model.Limit)
	}
	filters, err := ParseFilters(arguments.Filters)
	if err != nil {
		return err
	}
	model.Filters = filters

	cfg.AddModel(model)
	err = cfg.Save()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, successColor("Resource type '%s' saved", model.Name))
	return nil
}

func RemoveTypeCommand(cfg *config.Config, out io.Writer, name string) error {
	if cfg.FindModel(name) == nil {
		return fmt.Errorf("resource type '%s' is not configured", name)
	}
	cfg.RemoveModel(name)
	err := cfg.Save()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, successColor("Resource type '%s' removed", name))
	return nil
}
