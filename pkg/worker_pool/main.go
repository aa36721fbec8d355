/*
Package worker_pool
Structure to facilitate with the worker pool pattern
https://gobyexample.com/worker-pools

Usage:

	type Fetch struct {
		id     string
		result *jsonapi.Record
	}

	func (task Fetch) Run(send func(string), abort func()) {
		send(fmt.Sprintf("Fetching %s", task.id))
		record, err := records.FindOne(ctx, task.id, jsonapi.Query{})
		if err != nil {
			send(fmt.Sprintf("Fetching %s failed: %s", task.id, err))
			abort()
			return
		}
		*task.result = record
		send(fmt.Sprintf("Fetched %s", task.id))
	}

	func main() {
		results := make([]jsonapi.Record, len(ids))
		pool := worker_pool.New(4, len(ids), false)
		for i, id := range ids {
			pool.Add(Fetch{id, &results[i]})
		}
		pool.Start()
		<-pool.Wait()
		if pool.IsAborted() {
			fmt.Println("Something went wrong")
		}
	}

Each task gets a line of an output that gets updated while the workers are
running (using [uilive](https://github.com/gosuri/uilive)). Each invocation of
'send' replaces the line dedicated to the task. A quiet pool consumes the
messages without printing anything, which is what you want when stdout is not
a terminal.

Calling 'abort' makes sure the workers will not pick up any new tasks. Tasks
that are already in progress will continue.
*/
package worker_pool

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gosuri/uilive"
)

type Task interface {
	Run(send func(string), abort func())
}

type taskContainer struct {
	i    int
	task Task
}

type message struct {
	i    int
	body string
}

type Pool struct {
	numWorkers     int
	quiet          bool
	taskChannel    chan taskContainer
	innerWaitGroup sync.WaitGroup
	outerWaitGroup sync.WaitGroup
	counter        int
	messages       []string
	messageChannel chan message
	writer         *uilive.Writer
	aborted        atomic.Bool

	// Where progress is rendered; defaults to uilive's default (stdout)
	Out io.Writer
}

func New(numWorkers, numTasks int, quiet bool) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool{
		numWorkers:     numWorkers,
		quiet:          quiet,
		taskChannel:    make(chan taskContainer, numTasks),
		messages:       make([]string, numTasks),
		messageChannel: make(chan message),
	}
}

// Add queues a task. All tasks must be added before Start.
func (pool *Pool) Add(task Task) {
	pool.innerWaitGroup.Add(1)
	pool.taskChannel <- taskContainer{pool.counter, task}
	pool.counter += 1
}

func (pool *Pool) Start() {
	close(pool.taskChannel)
	if !pool.quiet {
		pool.writer = uilive.New()
		if pool.Out != nil {
			pool.writer.Out = pool.Out
		}
		pool.writer.Start()
	}
	pool.outerWaitGroup.Add(1)

	for i := 0; i < pool.numWorkers; i++ {
		go func() {
			for container := range pool.taskChannel {
				if !pool.aborted.Load() {
					i := container.i
					send := func(body string) {
						pool.messageChannel <- message{i, body}
					}
					container.task.Run(send, pool.abort)
				}
				pool.innerWaitGroup.Done()
			}
		}()
	}

	waitChannel := make(chan struct{})
	go func() {
		pool.innerWaitGroup.Wait()
		close(waitChannel)
	}()

	go func() {
		defer pool.outerWaitGroup.Done()
		for {
			select {
			case msg := <-pool.messageChannel:
				pool.render(msg)
			case <-waitChannel:
				if pool.writer != nil {
					pool.writer.Stop()
				}
				return
			}
		}
	}()
}

func (pool *Pool) render(msg message) {
	pool.messages[msg.i] = msg.body
	if pool.writer == nil {
		return
	}
	var lines []string
	for _, line := range pool.messages {
		if len(line) > 0 {
			lines = append(lines, line)
		}
	}
	fmt.Fprintln(pool.writer, strings.Join(lines, "\n"))
	_ = pool.writer.Flush()
}

func (pool *Pool) abort() {
	pool.aborted.Store(true)
}

// IsAborted reports whether any task called 'abort'.
func (pool *Pool) IsAborted() bool {
	return pool.aborted.Load()
}

// Messages returns the last message every task sent. Only meaningful after
// Wait.
func (pool *Pool) Messages() []string {
	return append([]string(nil), pool.messages...)
}

func (pool *Pool) Wait() <-chan struct{} {
	waitChannel := make(chan struct{})
	go func() {
		pool.outerWaitGroup.Wait()
		close(waitChannel)
	}()
	return waitChannel
}
