package jrlib

import (
	"context"
	"fmt"
	"io"

	"github.com/jsonresource/cli/internal/jrlib/config"
	"github.com/jsonresource/cli/pkg/jsonapi"
	"github.com/jsonresource/cli/pkg/worker_pool"
)

type GetCommandArguments struct {
	Type    string
	Ids     []string
	Include string
	Public  bool
	Workers int
	// Do not render progress; set when stdout is not a terminal
	Quiet bool
}

/*
GetCommand
Fetch one or more resources by id and print them as JSON: an object for a
single id, an array in argument order for several. Several ids are fetched
concurrently; the first failure stops the remaining fetches.
*/
func GetCommand(
	ctx context.Context,
	cfg *config.Config,
	api jsonapi.Connection,
	out io.Writer,
	arguments GetCommandArguments,
) error {
	if arguments.Type == "" || len(arguments.Ids) == 0 {
		return fmt.Errorf("please provide a resource type and at least one id")
	}
	model := ModelFor(cfg, &api, arguments.Type)
	query := jsonapi.Query{Include: arguments.Include}
	if arguments.Public {
		isPublic := true
		query.IsPublic = &isPublic
	}

	workers := arguments.Workers
	if workers < 1 {
		workers = 4
	}
	results := make([]jsonapi.Record, len(arguments.Ids))
	errs := make([]error, len(arguments.Ids))
	pool := worker_pool.New(workers, len(arguments.Ids), arguments.Quiet)
	for i, id := range arguments.Ids {
		pool.Add(&fetchTask{
			ctx:    ctx,
			model:  model,
			query:  query,
			id:     id,
			result: &results[i],
			err:    &errs[i],
		})
	}
	pool.Start()
	<-pool.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	if pool.IsAborted() {
		return fmt.Errorf("fetching %s was interrupted", arguments.Type)
	}

	if len(results) == 1 {
		return printJSON(out, results[0])
	}
	return printJSON(out, results)
}

type fetchTask struct {
	ctx    context.Context
	model  *jsonapi.Model[jsonapi.Record]
	query  jsonapi.Query
	id     string
	result *jsonapi.Record
	err    *error
}

func (task *fetchTask) Run(send func(string), abort func()) {
	label := fmt.Sprintf("%s/%s", task.model.Type, task.id)
	err := handleThrottling(task.ctx, func() error {
		record, err := task.model.FindOne(task.ctx, task.id, task.query)
		if err != nil {
			return err
		}
		*task.result = record
		return nil
	}, fmt.Sprintf("%s - Fetching", label), send)
	if err != nil {
		*task.err = fmt.Errorf("could not fetch %s: %w", label, err)
		send(fmt.Sprintf("%s - %s", label, errorColor("Failed")))
		abort()
		return
	}
	send(fmt.Sprintf("%s - %s", label, successColor("Done")))
}
