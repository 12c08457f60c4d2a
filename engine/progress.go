package engine

import (
	"log/slog"
	"sync"
	"time"
)

// Progress receives coarse notifications during generation. Implementations
// must not block the engine.
type Progress interface {
	IntrospectionStarted(tables int)
	GenerationStarted(files int)
	SaveStarted(files int)
	StartTask(name string)
	Done()
}

// NopProgress discards every notification.
type NopProgress struct{}

func (NopProgress) IntrospectionStarted(int) {}
func (NopProgress) GenerationStarted(int)    {}
func (NopProgress) SaveStarted(int)          {}
func (NopProgress) StartTask(string)         {}
func (NopProgress) Done()                    {}

// LogProgress writes notifications to a structured logger at debug level.
type LogProgress struct {
	logger *slog.Logger

	mu    sync.Mutex
	start time.Time
	tasks int
}

// NewLogProgress returns a progress sink logging to l.
func NewLogProgress(l *slog.Logger) *LogProgress {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return &LogProgress{logger: l}
}

// IntrospectionStarted implements Progress.
func (p *LogProgress) IntrospectionStarted(tables int) {
	p.mu.Lock()
	p.start = time.Now()
	p.mu.Unlock()
	p.logger.Debug("introspection started", "tables", tables)
}

// GenerationStarted implements Progress.
func (p *LogProgress) GenerationStarted(files int) {
	p.logger.Debug("generation started", "files", files)
}

// SaveStarted implements Progress.
func (p *LogProgress) SaveStarted(files int) {
	p.logger.Debug("save started", "files", files)
}

// StartTask implements Progress.
func (p *LogProgress) StartTask(name string) {
	p.mu.Lock()
	p.tasks++
	p.mu.Unlock()
	p.logger.Debug(name)
}

// Done implements Progress.
func (p *LogProgress) Done() {
	p.mu.Lock()
	tasks, start := p.tasks, p.start
	p.mu.Unlock()
	attrs := []any{"tasks", tasks}
	if !start.IsZero() {
		attrs = append(attrs, "duration", time.Since(start))
	}
	p.logger.Debug("generation done", attrs...)
}

// Tasks returns the number of tasks reported so far.
func (p *LogProgress) Tasks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tasks
}
