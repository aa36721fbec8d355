package jrlib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jsonresource/cli/internal/jrlib/config"
	"github.com/jsonresource/cli/pkg/jsonapi"
	"github.com/manifoldco/promptui"
)

type DeleteCommandArguments struct {
	Type  string
	Ids   []string
	Force bool
	// Whether the user can be asked for confirmation
	Interactive bool
	Skip        bool
}

// Replaced in tests
var confirm = func(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}

/*
DeleteCommand
Deletes resources by id. Unless Force is set the user has to confirm, which
is only possible in a terminal. With Skip, failures are reported and the
remaining ids are still deleted.
*/
func DeleteCommand(
	ctx context.Context,
	cfg *config.Config,
	api jsonapi.Connection,
	out io.Writer,
	arguments DeleteCommandArguments,
) error {
	if arguments.Type == "" || len(arguments.Ids) == 0 {
		return fmt.Errorf("please provide a resource type and at least one id")
	}
	model := ModelFor(cfg, &api, arguments.Type)

	if !arguments.Force {
		if !arguments.Interactive {
			return errors.New(
				"refusing to delete without confirmation, use --force",
			)
		}
		label := fmt.Sprintf("Delete %s %s",
			model.Type, strings.Join(arguments.Ids, ", "))
		if !confirm(label) {
			fmt.Fprintln(out, "Delete was cancelled!")
			return nil
		}
	}

	failed := 0
	for _, id := range arguments.Ids {
		label := fmt.Sprintf("%s/%s", model.Type, id)
		err := handleThrottling(ctx, func() error {
			return model.Delete(ctx, model.QueryPath, id)
		}, "", func(string) {})
		if err != nil {
			if !arguments.Skip {
				return fmt.Errorf("could not delete %s: %w", label, err)
			}
			failed++
			fmt.Fprintln(out, errorColor("Could not delete %s: %s", label, err))
			continue
		}
		fmt.Fprintln(out, successColor("Deleted %s", label))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d deletions failed", failed, len(arguments.Ids))
	}
	return nil
}
