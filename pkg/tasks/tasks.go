// Package tasks implements Solo's Task Graph Executor (spec §4.H): a list
// of tasks run sequentially by default, or concurrently when requested,
// with sub-task lists forming a nested graph under the same context.
package tasks

import (
	"context"
	"fmt"
	"sync"
)

// Context is the untyped bag passed to every task for carrying
// incremental results (spec §4.H "Context"). Tasks must not assume the
// presence of fields written by a skipped predecessor.
type Context map[string]any

// Func is a task's body. It may return a non-nil sub-task List, which is
// executed as a nested graph under the same Context before this task is
// considered complete.
type Func func(ctx context.Context, tctx Context) (*List, error)

// Task is one node of the graph (spec §4.H "Task").
type Task struct {
	Title string
	Skip  func(tctx Context) bool
	Run   Func
}

// List is a sequence of tasks plus how they execute.
type List struct {
	Tasks      []Task
	Concurrent bool
}

// Result records what happened to one task, for reporting/testing.
type Result struct {
	Title   string
	Skipped bool
	Err     error
}

// Error wraps a task failure with its title path, preserving the
// original cause (spec §4.H "Execution").
type Error struct {
	Path  []string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("task %q failed: %v", titlePath(e.Path), e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func titlePath(path []string) string {
	out := path[0]
	for _, p := range path[1:] {
		out += " > " + p
	}
	return out
}

// Run executes list under tctx, sequentially unless list.Concurrent.
func Run(ctx context.Context, list List, tctx Context) ([]Result, error) {
	return run(ctx, list, tctx, nil)
}

func run(ctx context.Context, list List, tctx Context, parentPath []string) ([]Result, error) {
	if list.Concurrent {
		return runConcurrent(ctx, list, tctx, parentPath)
	}
	return runSequential(ctx, list, tctx, parentPath)
}

func runSequential(ctx context.Context, list List, tctx Context, parentPath []string) ([]Result, error) {
	results := make([]Result, 0, len(list.Tasks))
	for _, t := range list.Tasks {
		path := append(append([]string{}, parentPath...), t.Title)
		if t.Skip != nil && t.Skip(tctx) {
			results = append(results, Result{Title: t.Title, Skipped: true})
			continue
		}
		sub, err := t.Run(ctx, tctx)
		if err != nil {
			results = append(results, Result{Title: t.Title, Err: err})
			return results, &Error{Path: path, Cause: err}
		}
		if sub != nil {
			subResults, err := run(ctx, *sub, tctx, path)
			results = append(results, subResults...)
			if err != nil {
				return results, err
			}
			continue
		}
		results = append(results, Result{Title: t.Title})
	}
	return results, nil
}

// runConcurrent executes siblings concurrently; a failure cancels the
// remaining siblings in this sub-graph (not the parent sequential graph,
// spec §5 "Cancellation"). Concurrent siblings must not share mutable
// context fields (spec §4.H "Context").
func runConcurrent(ctx context.Context, list List, tctx Context, parentPath []string) ([]Result, error) {
	ctx, cancel := contextWithCancel(ctx)
	defer cancel()

	perTask := make([][]Result, len(list.Tasks))
	errs := make([]error, len(list.Tasks))

	var wg sync.WaitGroup
	for i, t := range list.Tasks {
		wg.Add(1)
		go func(i int, t Task) {
			defer wg.Done()
			path := append(append([]string{}, parentPath...), t.Title)
			if t.Skip != nil && t.Skip(tctx) {
				perTask[i] = []Result{{Title: t.Title, Skipped: true}}
				return
			}
			sub, err := t.Run(ctx, tctx)
			if err != nil {
				perTask[i] = []Result{{Title: t.Title, Err: err}}
				errs[i] = &Error{Path: path, Cause: err}
				cancel()
				return
			}
			if sub != nil {
				subResults, err := run(ctx, *sub, tctx, path)
				perTask[i] = append([]Result{{Title: t.Title}}, subResults...)
				if err != nil {
					errs[i] = err
					cancel()
				}
				return
			}
			perTask[i] = []Result{{Title: t.Title}}
		}(i, t)
	}
	wg.Wait()

	var results []Result
	for _, rs := range perTask {
		results = append(results, rs...)
	}
	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func contextWithCancel(ctx context.Context) (context.Context, func()) {
	return context.WithCancel(ctx)
}
