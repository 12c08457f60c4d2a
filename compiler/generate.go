package compiler

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/syssam/mbgen"
	"github.com/syssam/mbgen/compiler/gen"
	"github.com/syssam/mbgen/connector"
	"github.com/syssam/mbgen/dialect"
	"github.com/syssam/mbgen/engine"
)

// Preflight inspects the database ahead of generation. It returns advisory
// warnings, or an error if the target table cannot be read.
type Preflight interface {
	Preflight(ctx context.Context, p dialect.Profile, job *gen.Job) ([]string, error)
}

// Generator runs the generation pipeline. A Generator holds no per-run
// state and may be shared.
type Generator struct {
	engine    engine.Engine
	resolver  connector.Resolver
	preflight Preflight
	progress  engine.Progress
	logger    *slog.Logger
}

// New returns a generator configured with the given options.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		progress: engine.NopProgress{},
		logger:   slog.New(slog.DiscardHandler),
	}
	if err := g.Apply(opts...); err != nil {
		return nil, err
	}
	if g.engine == nil {
		return nil, mbgen.NewConfigError("Engine", nil, "engine is required")
	}
	if g.resolver == nil {
		return nil, mbgen.NewConfigError("Resolver", nil, "driver resolver is required")
	}
	return g, nil
}

// Result is the outcome of a successful run.
type Result struct {
	// Job that was handed to the engine.
	Job *gen.Job
	// Warnings reported by the preflight and the engine, in that order.
	Warnings []string
	// Removed is the mapping file deleted before generation, if any.
	Removed string
	// Inert lists requested plugins the dialect could not honor.
	Inert []string
	// Mapping is the path of the mapping file the job writes.
	Mapping string
}

// Plan resolves the dialect policy, assembles the job and selects its
// plugins without touching the file system or the database.
func Plan(p dialect.Profile, req gen.Request, rules []gen.ColumnRule) (*Result, error) {
	policy, err := dialect.Resolve(p, dialect.Options{SchemaPrefix: req.Flags.SchemaPrefix})
	if err != nil {
		return nil, err
	}
	req, err = req.Normalize()
	if err != nil {
		return nil, err
	}
	job, err := gen.Assemble(req, rules, policy)
	if err != nil {
		return nil, err
	}
	inert := gen.SelectPlugins(job, req.Flags, policy)
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return &Result{Job: job, Inert: inert, Mapping: req.MappingFile()}, nil
}

// Generate runs one generation: resolve the dialect policy, assemble the
// job, select plugins, resolve the driver, remove a stale mapping file in
// overwrite mode and invoke the engine. Every step runs to completion
// before the next starts; the first failure aborts the run.
//
// In overwrite mode the existing mapping file is deleted before the engine
// runs. It is not restored if the engine fails.
func (g *Generator) Generate(ctx context.Context, p dialect.Profile, req gen.Request, rules []gen.ColumnRule) (*Result, error) {
	log := g.logger.With("run", uuid.NewString(), "table", req.TableName)
	res, err := Plan(p, req, rules)
	if err != nil {
		return nil, err
	}
	job := res.Job
	log = log.With("dialect", job.Dialect.String())
	if len(res.Inert) > 0 {
		log.Debug("plugins not supported by dialect", "plugins", res.Inert)
	}
	log.Debug("job assembled", "plugins", job.PluginNames(), "scope", job.Table.Scope.Mode.String())

	driver, err := g.resolver.Resolve(ctx, job.Dialect)
	if err != nil {
		return nil, err
	}
	job.ClassPath = append(job.ClassPath, driver)

	if g.preflight != nil {
		warnings, err := g.preflight.Preflight(ctx, p, job)
		if err != nil {
			return nil, err
		}
		res.Warnings = append(res.Warnings, warnings...)
	}

	if req.Flags.OverwriteMapping {
		removed, err := removeMapping(res.Mapping, log)
		if err != nil {
			return nil, mbgen.NewGenerationError("guard", job.Dialect.String(), job.Table.Name, err)
		}
		res.Removed = removed
	}

	inv := engine.NewInvocation(job, g.progress)
	err = g.engine.Generate(ctx, inv)
	res.Warnings = append(res.Warnings, inv.Warnings.List()...)
	if err != nil {
		log.Error("generation failed", "error", err)
		return nil, mbgen.NewGenerationError("engine", job.Dialect.String(), job.Table.Name, err)
	}
	for _, w := range res.Warnings {
		log.Warn("generation warning", "warning", w)
	}
	log.Info("generation finished", "warnings", len(res.Warnings))
	return res, nil
}

// MappingFilePath returns the path the engine writes the mapping
// descriptor of the request to.
func MappingFilePath(req gen.Request) (string, error) {
	req, err := req.Normalize()
	if err != nil {
		return "", err
	}
	return req.MappingFile(), nil
}
