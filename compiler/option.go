package compiler

import (
	"log/slog"

	"github.com/syssam/mbgen"
	"github.com/syssam/mbgen/connector"
	"github.com/syssam/mbgen/engine"
)

// Option configures a Generator.
type Option func(*Generator) error

// WithEngine sets the generation engine. Required.
func WithEngine(e engine.Engine) Option {
	return func(g *Generator) error {
		if e == nil {
			return mbgen.NewConfigError("Engine", nil, "engine cannot be nil")
		}
		g.engine = e
		return nil
	}
}

// WithResolver sets the driver resolver. Required.
func WithResolver(r connector.Resolver) Option {
	return func(g *Generator) error {
		if r == nil {
			return mbgen.NewConfigError("Resolver", nil, "resolver cannot be nil")
		}
		g.resolver = r
		return nil
	}
}

// WithPreflight checks the database before any file is touched.
func WithPreflight(p Preflight) Option {
	return func(g *Generator) error {
		g.preflight = p
		return nil
	}
}

// WithProgress sets the progress sink handed to the engine.
func WithProgress(p engine.Progress) Option {
	return func(g *Generator) error {
		if p == nil {
			p = engine.NopProgress{}
		}
		g.progress = p
		return nil
	}
}

// WithLogger sets the logger. Default discards every record.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) error {
		if l == nil {
			return mbgen.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		g.logger = l
		return nil
	}
}

// Apply applies the given options to the generator.
func (g *Generator) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return err
		}
	}
	return nil
}
