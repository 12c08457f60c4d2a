// Package mbg runs jobs through the MyBatis Generator command line runner.
//
// The engine writes the job as an XML configuration file and executes
//
//	java -cp <classpath> org.mybatis.generator.api.ShellRunner -configfile <file> -overwrite -verbose
//
// as a child process. Verbose output is reported as progress and the
// warnings printed by the runner are collected on the invocation.
package mbg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/syssam/mbgen"
	"github.com/syssam/mbgen/compiler/gen"
	"github.com/syssam/mbgen/engine"
)

// MainClass is the entry point of the MyBatis Generator runner.
const MainClass = "org.mybatis.generator.api.ShellRunner"

// Engine is an engine.Engine backed by a Java process.
type Engine struct {
	java      string
	classPath []string
	workDir   string
	keep      bool
	logger    *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine) error

// WithJava sets the java executable. Default is "java" from PATH.
func WithJava(path string) Option {
	return func(e *Engine) error {
		if path == "" {
			return mbgen.NewConfigError("Java", nil, "java executable cannot be empty")
		}
		e.java = path
		return nil
	}
}

// WithClassPath adds jars holding MyBatis Generator and its plugins.
func WithClassPath(jars ...string) Option {
	return func(e *Engine) error {
		e.classPath = append(e.classPath, jars...)
		return nil
	}
}

// WithWorkDir sets the directory the configuration file is written to.
// Default is the system temporary directory.
func WithWorkDir(dir string) Option {
	return func(e *Engine) error {
		e.workDir = dir
		return nil
	}
}

// WithKeepConfig keeps the configuration file after the run.
func WithKeepConfig() Option {
	return func(e *Engine) error {
		e.keep = true
		return nil
	}
}

// WithLogger sets the logger of the engine.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) error {
		if l == nil {
			return mbgen.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		e.logger = l
		return nil
	}
}

// New returns an engine configured with the given options.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		java:   "java",
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Generate implements engine.Engine.
func (e *Engine) Generate(ctx context.Context, inv *engine.Invocation) error {
	job := inv.Job
	if len(inv.Contexts) > 0 {
		if _, ok := inv.Contexts[job.ID]; !ok {
			return nil
		}
	}
	table := qualifiedName(job)
	if _, ok := inv.Processed[table]; ok {
		e.logger.Debug("table already generated", "table", table)
		return nil
	}
	path, err := e.writeConfig(job)
	if err != nil {
		return err
	}
	if !e.keep {
		defer os.Remove(path)
	}
	if err := e.run(ctx, path, inv); err != nil {
		return err
	}
	if inv.Processed != nil {
		inv.Processed[table] = struct{}{}
	}
	return nil
}

func (e *Engine) writeConfig(job *gen.Job) (string, error) {
	f, err := os.CreateTemp(e.workDir, "mbgen-*.xml")
	if err != nil {
		return "", fmt.Errorf("mbg: create config file: %w", err)
	}
	if err := WriteConfig(f, job); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("mbg: write config file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	e.logger.Debug("wrote generator configuration", "path", f.Name())
	return f.Name(), nil
}

// Args returns the java arguments for running the configuration file.
func (e *Engine) Args(config string, overwrite bool) []string {
	args := []string{MainClass, "-configfile", config}
	if len(e.classPath) > 0 {
		args = append([]string{"-cp", strings.Join(e.classPath, string(filepath.ListSeparator))}, args...)
	}
	if overwrite {
		args = append(args, "-overwrite")
	}
	return append(args, "-verbose")
}

func (e *Engine) run(ctx context.Context, config string, inv *engine.Invocation) error {
	cmd := exec.CommandContext(ctx, e.java, e.Args(config, inv.Callback.Overwrite)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	e.logger.Debug("starting generator", "java", e.java, "config", config)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("mbg: start %s: %w", e.java, err)
	}
	res, scanErr := scan(stdout, inv)
	if scanErr != nil {
		// Drain so the process does not block on a full pipe.
		io.Copy(io.Discard, stdout)
	}
	if err := cmd.Wait(); err != nil {
		return &ProcessError{Err: err, Output: res.pending, Stderr: tail(stderr.String(), 20)}
	}
	if scanErr != nil {
		return scanErr
	}
	// The runner reports SQL, IO and configuration failures on its output
	// and still exits with status 0.
	if !res.finished {
		return &ProcessError{Err: ErrUnfinished, Output: res.pending, Stderr: tail(stderr.String(), 20)}
	}
	return nil
}

// ErrUnfinished is reported when the runner exits without announcing a
// successful run.
var ErrUnfinished = errors.New("runner did not finish successfully")

// ProcessError is returned when the generator process fails.
type ProcessError struct {
	Err error
	// Output holds the runner lines printed after the last task.
	Output []string
	Stderr string
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	msg := "mbg: generator failed: " + e.Err.Error()
	if len(e.Output) > 0 {
		msg += ": " + strings.Join(e.Output, "\n")
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ProcessError) Unwrap() error { return e.Err }

// Runner output, see org.mybatis.generator.internal.VerboseProgressCallback
// and the ShellRunner message bundle.
const (
	introspecting  = "Introspecting table"
	generating     = "Generating"
	saving         = "Saving file"
	finished       = "MyBatis Generator finished successfully"
	finishedWarned = "there were warnings"
)

type scanResult struct {
	finished bool
	// pending holds the lines after the last task when the runner did not
	// finish.
	pending []string
}

// scan reports runner output as progress. Lines printed between the last
// task and the final "finished with warnings" line are warnings.
func scan(r io.Reader, inv *engine.Invocation) (scanResult, error) {
	var (
		p       = inv.Progress
		stage   string
		pending []string
		res     scanResult
	)
	if p == nil {
		p = engine.NopProgress{}
	}
	enter := func(s string, start func(int)) {
		if stage != s {
			stage = s
			start(1)
		}
	}
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		switch {
		case strings.HasPrefix(line, introspecting):
			enter(introspecting, p.IntrospectionStarted)
			p.StartTask(line)
			pending = nil
		case strings.HasPrefix(line, generating):
			enter(generating, p.GenerationStarted)
			p.StartTask(line)
			pending = nil
		case strings.HasPrefix(line, saving):
			enter(saving, p.SaveStarted)
			p.StartTask(line)
			pending = nil
		case strings.HasPrefix(line, finished):
			if strings.Contains(line, finishedWarned) {
				inv.Warnings.Add(pending...)
			}
			pending = nil
			res.finished = true
			p.Done()
		case line != "":
			pending = append(pending, line)
		}
	}
	if !res.finished {
		res.pending = pending
	}
	return res, s.Err()
}

func qualifiedName(job *gen.Job) string {
	if name := job.Table.Scope.Name; name != "" {
		return name + "." + job.Table.Name
	}
	return job.Table.Name
}

func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
