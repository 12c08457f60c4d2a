package compiler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/mbgen"
	"github.com/syssam/mbgen/compiler/gen"
	"github.com/syssam/mbgen/connector"
	"github.com/syssam/mbgen/dialect"
	"github.com/syssam/mbgen/engine"
)

func testProfile(tag dialect.Tag) dialect.Profile {
	return dialect.Profile{
		Dialect:  string(tag),
		Host:     "db.local",
		Username: "root",
		Password: "secret",
		Schema:   "shop",
	}
}

func testRequest(project string) gen.Request {
	return gen.Request{
		TableName:     "user_info",
		ProjectFolder: project,
		Model:         gen.Layer{Package: "com.acme.model", Folder: "src/main/java"},
		Mapper:        gen.Layer{Package: "com.acme.mapper", Folder: "src/main/java"},
		Mapping:       gen.Layer{Package: "mapper", Folder: "src/main/resources"},
		Flags:         gen.DefaultFlags(),
	}
}

type fakeEngine struct {
	calls    int
	job      *gen.Job
	sawFile  bool
	path     string
	warnings []string
	err      error
}

func (f *fakeEngine) Generate(_ context.Context, inv *engine.Invocation) error {
	f.calls++
	f.job = inv.Job
	if f.path != "" {
		_, err := os.Stat(f.path)
		f.sawFile = err == nil
	}
	inv.Warnings.Add(f.warnings...)
	return f.err
}

type countingResolver struct {
	calls int
}

func (r *countingResolver) Resolve(context.Context, dialect.Tag) (string, error) {
	r.calls++
	return "/opt/jdbc/driver.jar", nil
}

func TestGenerate(t *testing.T) {
	project := t.TempDir()
	req := testRequest(project)
	req.Flags.OverwriteMapping = true

	mapping, err := MappingFilePath(req)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(project, "src/main/resources/mapper/UserInfoMapper.xml"), mapping)
	require.NoError(t, os.MkdirAll(filepath.Dir(mapping), 0o755))
	require.NoError(t, os.WriteFile(mapping, []byte("<mapper/>"), 0o644))
	sibling := filepath.Join(filepath.Dir(mapping), "OrderMapper.xml")
	require.NoError(t, os.WriteFile(sibling, []byte("<mapper/>"), 0o644))

	var buf bytes.Buffer
	fe := &fakeEngine{path: mapping, warnings: []string{"Column created_at does not exist"}}
	g, err := New(
		WithEngine(fe),
		WithResolver(connector.Static{dialect.MySQL: "/opt/jdbc/mysql.jar"}),
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)
	require.NoError(t, err)

	res, err := g.Generate(context.Background(), testProfile(dialect.MySQL), req, []gen.ColumnRule{gen.Ignore("password")})
	require.NoError(t, err)
	assert.Equal(t, 1, fe.calls)
	assert.False(t, fe.sawFile, "mapping file must be gone before the engine runs")
	assert.Equal(t, mapping, res.Removed)
	assert.FileExists(t, sibling)
	assert.Equal(t, []string{"Column created_at does not exist"}, res.Warnings)
	assert.Equal(t, []string{"/opt/jdbc/mysql.jar"}, fe.job.ClassPath)
	assert.Equal(t, "UserInfo", fe.job.Table.DomainObject)
	assert.True(t, fe.job.HasPlugin(gen.PluginCommonDAO))
	assert.Contains(t, buf.String(), "removing existing mapping file")
	assert.Contains(t, buf.String(), "run=")
}

func TestGenerateKeepsMappingWithoutOverwrite(t *testing.T) {
	project := t.TempDir()
	req := testRequest(project)
	mapping, err := MappingFilePath(req)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(mapping), 0o755))
	require.NoError(t, os.WriteFile(mapping, []byte("<mapper/>"), 0o644))

	fe := &fakeEngine{path: mapping}
	g, err := New(WithEngine(fe), WithResolver(connector.Static{dialect.PostgreSQL: "/pg.jar"}))
	require.NoError(t, err)

	res, err := g.Generate(context.Background(), testProfile(dialect.PostgreSQL), req, nil)
	require.NoError(t, err)
	assert.True(t, fe.sawFile)
	assert.Empty(t, res.Removed)
}

func TestGenerateMissingMapping(t *testing.T) {
	req := testRequest(t.TempDir())
	req.Flags.OverwriteMapping = true
	fe := &fakeEngine{}
	g, err := New(WithEngine(fe), WithResolver(connector.Static{dialect.MySQL: "/m.jar"}))
	require.NoError(t, err)

	res, err := g.Generate(context.Background(), testProfile(dialect.MySQL), req, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Removed)
	assert.Equal(t, 1, fe.calls)
}

func TestGenerateInertPlugins(t *testing.T) {
	req := testRequest(t.TempDir())
	req.Flags.OffsetLimit = true
	req.Flags.ForUpdate = true
	fe := &fakeEngine{}
	g, err := New(WithEngine(fe), WithResolver(connector.Static{dialect.Oracle: "/o.jar"}))
	require.NoError(t, err)

	res, err := g.Generate(context.Background(), testProfile(dialect.Oracle), req, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{gen.PluginLimit.Name, gen.PluginForUpdate.Name, gen.PluginCommonDAO.Name}, res.Inert)
	assert.False(t, fe.job.HasPlugin(gen.PluginLimit))
}

func TestGenerateAborts(t *testing.T) {
	tests := []struct {
		name    string
		profile dialect.Profile
		rules   []gen.ColumnRule
		check   func(error) bool
	}{
		{
			name:    "unknown dialect",
			profile: testProfile("DB2"),
			check:   mbgen.IsConfigError,
		},
		{
			name:    "missing host",
			profile: dialect.Profile{Dialect: "MySQL", Schema: "shop"},
			check:   mbgen.IsConfigError,
		},
		{
			name:    "conflicting rules",
			profile: testProfile(dialect.MySQL),
			rules: []gen.ColumnRule{
				gen.Ignore("password"),
				{Kind: gen.RuleOverride, Column: "PASSWORD", Property: "pwd"},
			},
			check: mbgen.IsConfigError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := t.TempDir()
			req := testRequest(project)
			req.Flags.OverwriteMapping = true
			mapping, err := MappingFilePath(req)
			require.NoError(t, err)
			require.NoError(t, os.MkdirAll(filepath.Dir(mapping), 0o755))
			require.NoError(t, os.WriteFile(mapping, []byte("<mapper/>"), 0o644))

			fe, r := &fakeEngine{}, &countingResolver{}
			g, err := New(WithEngine(fe), WithResolver(r))
			require.NoError(t, err)

			_, err = g.Generate(context.Background(), tt.profile, req, tt.rules)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
			assert.Zero(t, r.calls)
			assert.Zero(t, fe.calls)
			assert.FileExists(t, mapping)
		})
	}
}

func TestGenerateDriverMissing(t *testing.T) {
	req := testRequest(t.TempDir())
	fe := &fakeEngine{}
	g, err := New(WithEngine(fe), WithResolver(connector.Dir(t.TempDir())))
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), testProfile(dialect.SQLServer), req, nil)
	assert.True(t, mbgen.IsDriverError(err))
	assert.Zero(t, fe.calls)
}

type preflightFunc func(context.Context, dialect.Profile, *gen.Job) ([]string, error)

func (f preflightFunc) Preflight(ctx context.Context, p dialect.Profile, job *gen.Job) ([]string, error) {
	return f(ctx, p, job)
}

func TestGeneratePreflight(t *testing.T) {
	ctx := context.Background()
	fe := &fakeEngine{warnings: []string{"engine"}}
	ok := preflightFunc(func(context.Context, dialect.Profile, *gen.Job) ([]string, error) {
		return []string{"preflight"}, nil
	})
	g, err := New(WithEngine(fe), WithResolver(connector.Static{dialect.MySQL: "/m.jar"}), WithPreflight(ok))
	require.NoError(t, err)
	res, err := g.Generate(ctx, testProfile(dialect.MySQL), testRequest(t.TempDir()), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"preflight", "engine"}, res.Warnings)

	fail := preflightFunc(func(context.Context, dialect.Profile, *gen.Job) ([]string, error) {
		return nil, mbgen.NewIntrospectionError("MySQL", "user_info", errors.New("table not found"))
	})
	fe = &fakeEngine{}
	g, err = New(WithEngine(fe), WithResolver(connector.Static{dialect.MySQL: "/m.jar"}), WithPreflight(fail))
	require.NoError(t, err)
	_, err = g.Generate(ctx, testProfile(dialect.MySQL), testRequest(t.TempDir()), nil)
	assert.True(t, mbgen.IsIntrospectionError(err))
	assert.Zero(t, fe.calls)
}

func TestGenerateEngineFailure(t *testing.T) {
	fe := &fakeEngine{err: errors.New("exit status 1")}
	g, err := New(WithEngine(fe), WithResolver(connector.Static{dialect.SQLite: "/s.jar"}))
	require.NoError(t, err)

	profile := dialect.Profile{Dialect: "SQLite", Schema: "/data/shop.db"}
	_, err = g.Generate(context.Background(), profile, testRequest(t.TempDir()), nil)
	require.Error(t, err)
	var gerr *mbgen.GenerationError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "engine", gerr.Stage)
	assert.Equal(t, "user_info", gerr.Table)
}

func TestNew(t *testing.T) {
	_, err := New()
	assert.True(t, mbgen.IsConfigError(err))
	_, err = New(WithEngine(&fakeEngine{}))
	assert.True(t, mbgen.IsConfigError(err))
	_, err = New(WithEngine(nil))
	assert.Error(t, err)
	_, err = New(WithEngine(&fakeEngine{}), WithResolver(connector.Dir(".")), WithLogger(nil))
	assert.Error(t, err)
}
