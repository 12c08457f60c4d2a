// Package engine defines the boundary to the external generation engine.
//
// An Engine receives a fully assembled job and performs all database
// introspection and source emission. The package also provides the progress
// sinks and the warning collector handed to an engine on every invocation.
package engine

import (
	"context"
	"slices"
	"sync"

	"github.com/syssam/mbgen/compiler/gen"
)

// Engine runs one generation job.
type Engine interface {
	Generate(ctx context.Context, inv *Invocation) error
}

// The Func type is an adapter to allow the use of ordinary functions as engines.
type Func func(context.Context, *Invocation) error

// Generate calls f(ctx, inv).
func (f Func) Generate(ctx context.Context, inv *Invocation) error { return f(ctx, inv) }

// ShellCallback controls how the engine writes generated files.
type ShellCallback struct {
	// Overwrite replaces existing Java files instead of writing them under
	// a new name.
	Overwrite bool
}

// Invocation is everything the engine receives for one run.
type Invocation struct {
	Job      *gen.Job
	Callback ShellCallback
	// Warnings collects non-fatal engine advisories.
	Warnings *Warnings
	// Processed holds the fully qualified names of tables already
	// generated. The engine skips them and records the tables it generates.
	Processed map[string]struct{}
	// Contexts limits the run to the given context ids. Empty runs every context.
	Contexts map[string]struct{}
	Progress Progress
}

// NewInvocation returns an invocation of the job with overwrite semantics,
// empty collectors and the given progress sink. A nil sink is a no-op.
func NewInvocation(job *gen.Job, p Progress) *Invocation {
	if p == nil {
		p = NopProgress{}
	}
	return &Invocation{
		Job:       job,
		Callback:  ShellCallback{Overwrite: true},
		Warnings:  &Warnings{},
		Processed: make(map[string]struct{}),
		Contexts:  make(map[string]struct{}),
		Progress:  p,
	}
}

// Warnings is a concurrency-safe list of engine advisories.
type Warnings struct {
	mu   sync.Mutex
	list []string
}

// Add appends warnings to the list.
func (w *Warnings) Add(msgs ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.list = append(w.list, msgs...)
}

// List returns a copy of the collected warnings.
func (w *Warnings) List() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.list)
}

// Len returns the number of collected warnings.
func (w *Warnings) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.list)
}
