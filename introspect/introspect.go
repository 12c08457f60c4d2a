// Package introspect reads table metadata from the live database with
// atlas. It backs the generation preflight, which catches a missing table
// or a rule naming an unknown column before any file is touched, and the
// table listing of the command line tool.
package introspect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	atlasmysql "ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"
	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/mbgen"
	"github.com/syssam/mbgen/compiler/gen"
	"github.com/syssam/mbgen/dialect"
)

// ErrUnsupported is returned for profiles the inspector cannot connect to
// natively: dialects without a Go driver and raw JDBC URLs.
var ErrUnsupported = errors.New("introspect: database cannot be inspected natively")

// Source is the native connection of a profile.
type Source struct {
	Tag    dialect.Tag
	Driver string // database/sql driver name.
	DSN    string
	Schema string // schema passed to the inspector.
}

// SourceOf returns the native connection of the profile.
func SourceOf(p dialect.Profile) (*Source, error) {
	spec, err := dialect.Lookup(p.Dialect)
	if err != nil {
		return nil, err
	}
	if p.URL != "" {
		return nil, fmt.Errorf("%w: raw connection URL", ErrUnsupported)
	}
	port := p.Port
	if port == 0 {
		port = spec.DefaultPort
	}
	addr := net.JoinHostPort(p.Host, strconv.Itoa(port))
	switch spec.Tag {
	case dialect.MySQL, dialect.MySQL8:
		cfg := mysql.NewConfig()
		cfg.User = p.Username
		cfg.Passwd = p.Password
		cfg.Net = "tcp"
		cfg.Addr = addr
		cfg.DBName = p.Schema
		return &Source{Tag: spec.Tag, Driver: "mysql", DSN: cfg.FormatDSN(), Schema: p.Schema}, nil
	case dialect.PostgreSQL:
		u := url.URL{
			Scheme:   "postgres",
			Host:     addr,
			Path:     "/" + p.Schema,
			RawQuery: "sslmode=disable",
		}
		if p.Username != "" {
			u.User = url.UserPassword(p.Username, p.Password)
		}
		// Tables live in the current schema of the database.
		return &Source{Tag: spec.Tag, Driver: "postgres", DSN: u.String()}, nil
	case dialect.SQLite:
		return &Source{Tag: spec.Tag, Driver: "sqlite", DSN: "file:" + p.Schema + "?mode=ro&_pragma=foreign_keys(1)", Schema: "main"}, nil
	default:
		return nil, fmt.Errorf("%w: no driver for %s", ErrUnsupported, spec.Tag)
	}
}

// Opener opens a database handle.
type Opener func(driver, dsn string) (*sql.DB, error)

// Inspector inspects the tables of a connection profile.
type Inspector struct {
	open      Opener
	logger    *slog.Logger
	threshold time.Duration
	stats     QueryStats
}

// Option configures an Inspector.
type Option func(*Inspector) error

// WithOpener sets the function used to open database handles. Default is sql.Open.
func WithOpener(o Opener) Option {
	return func(i *Inspector) error {
		if o == nil {
			return mbgen.NewConfigError("Opener", nil, "opener cannot be nil")
		}
		i.open = o
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Inspector) error {
		if l == nil {
			return mbgen.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		i.logger = l
		return nil
	}
}

// WithSlowThreshold sets the duration above which a query is logged as slow.
func WithSlowThreshold(d time.Duration) Option {
	return func(i *Inspector) error {
		if d <= 0 {
			return mbgen.NewConfigError("SlowThreshold", d, "threshold must be positive")
		}
		i.threshold = d
		return nil
	}
}

// New returns an inspector configured with the given options.
func New(opts ...Option) (*Inspector, error) {
	i := &Inspector{
		open:      sql.Open,
		logger:    slog.New(slog.DiscardHandler),
		threshold: DefaultSlowThreshold,
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	return i, nil
}

// Stats returns the statistics of all queries issued so far.
func (i *Inspector) Stats() StatsSnapshot { return i.stats.Snapshot() }

// Preflight checks that the job table exists and that the columns named by
// its rules exist in it. Unknown columns are reported as warnings. Profiles
// that cannot be inspected natively are skipped with a warning.
func (i *Inspector) Preflight(ctx context.Context, p dialect.Profile, job *gen.Job) ([]string, error) {
	src, err := SourceOf(p)
	if errors.Is(err, ErrUnsupported) {
		i.logger.Debug("preflight skipped", "reason", err)
		return []string{"database preflight skipped: " + strings.TrimPrefix(err.Error(), "introspect: ")}, nil
	}
	if err != nil {
		return nil, err
	}
	s, err := i.inspect(ctx, src, &schema.InspectOptions{Tables: []string{job.Table.Name}})
	if err != nil {
		return nil, mbgen.NewIntrospectionError(string(src.Tag), job.Table.Name, err)
	}
	t := lookup(s, job.Table.Name)
	if t == nil {
		return nil, mbgen.NewIntrospectionError(string(src.Tag), job.Table.Name, errors.New("table not found"))
	}
	return unknownColumns(t, job), nil
}

// Tables returns the table names of the profile schema, sorted.
func (i *Inspector) Tables(ctx context.Context, p dialect.Profile) ([]string, error) {
	src, err := SourceOf(p)
	if err != nil {
		return nil, err
	}
	s, err := i.inspect(ctx, src, nil)
	if err != nil {
		return nil, mbgen.NewIntrospectionError(string(src.Tag), "", err)
	}
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}
	slices.Sort(names)
	return names, nil
}

func (i *Inspector) inspect(ctx context.Context, src *Source, opts *schema.InspectOptions) (*schema.Schema, error) {
	db, err := i.open(src.Driver, src.DSN)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	q := &statsQuerier{db: db, stats: &i.stats, threshold: i.threshold, logger: i.logger}
	var drv schema.Inspector
	switch src.Tag {
	case dialect.MySQL, dialect.MySQL8:
		drv, err = atlasmysql.Open(q)
	case dialect.PostgreSQL:
		drv, err = postgres.Open(q)
	default:
		drv, err = sqlite.Open(q)
	}
	if err != nil {
		return nil, err
	}
	s, err := drv.InspectSchema(ctx, src.Schema, opts)
	i.logger.Debug("schema inspected", "dialect", src.Tag.String(), "stats", i.stats.Snapshot().String())
	return s, err
}

// lookup finds the table by name, falling back to a case-insensitive match
// for databases that fold identifiers.
func lookup(s *schema.Schema, name string) *schema.Table {
	if t, ok := s.Table(name); ok {
		return t
	}
	for _, t := range s.Tables {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}

func unknownColumns(t *schema.Table, job *gen.Job) []string {
	has := func(name string) bool {
		return slices.ContainsFunc(t.Columns, func(c *schema.Column) bool { return strings.EqualFold(c.Name, name) })
	}
	var warnings []string
	check := func(column, role string) {
		if column != "" && !has(column) {
			warnings = append(warnings, fmt.Sprintf("column %s (%s) does not exist in table %s", column, role, t.Name))
		}
	}
	for _, c := range job.Table.Ignored {
		check(c, "ignored")
	}
	for _, o := range job.Table.Overrides {
		check(o.Column, "override")
	}
	if c, ok := job.Comment.Properties.Get("optimisticLockerColumnName"); ok {
		check(c, "optimistic lock")
	}
	if c, ok := job.Comment.Properties.Get("logicDeleteFlagColumnName"); ok {
		check(c, "logic delete")
	}
	return warnings
}
