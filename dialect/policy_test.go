package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/mbgen"
)

func profile(tag Tag) Profile {
	return Profile{
		Dialect:  string(tag),
		Host:     "db.local",
		Username: "APP1",
		Password: "secret",
		Schema:   "shop",
	}
}

func TestResolveExactlyOneScope(t *testing.T) {
	for _, tag := range Names() {
		for _, prefix := range []bool{false, true} {
			p, err := Resolve(profile(Tag(tag)), Options{SchemaPrefix: prefix})
			require.NoError(t, err, tag)

			schema, catalog := p.Scope.Schema() != "", p.Scope.Catalog() != ""
			assert.True(t, schema != catalog, "%s prefix=%v: schema=%q catalog=%q", tag, prefix, p.Scope.Schema(), p.Scope.Catalog())
		}
	}
}

func TestResolveScope(t *testing.T) {
	tests := []struct {
		name    string
		tag     Tag
		prefix  bool
		mode    ScopeMode
		scopeOn string
	}{
		{"mysql", MySQL, false, ScopeSchema, "shop"},
		{"mysql prefixed", MySQL, true, ScopeSchema, "shop"},
		{"mysql 8 prefixed", MySQL8, true, ScopeSchema, "shop"},
		{"oracle", Oracle, false, ScopeCatalog, "shop"},
		{"oracle prefixed pins username", Oracle, true, ScopeSchema, "APP1"},
		{"postgres", PostgreSQL, false, ScopeCatalog, "shop"},
		{"postgres prefixed", PostgreSQL, true, ScopeCatalog, "shop"},
		{"sql server prefixed", SQLServer, true, ScopeCatalog, "shop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Resolve(profile(tt.tag), Options{SchemaPrefix: tt.prefix})
			require.NoError(t, err)
			assert.Equal(t, tt.mode, p.Scope.Mode)
			assert.Equal(t, tt.scopeOn, p.Scope.Name)
		})
	}
}

func TestResolveMySQLScenario(t *testing.T) {
	p, err := Resolve(profile(MySQL), Options{SchemaPrefix: true})
	require.NoError(t, err)

	assert.Equal(t, "shop", p.Scope.Schema())
	assert.Empty(t, p.Scope.Catalog())
	assert.Equal(t, "`", p.Delimiters.Begin)
	assert.Equal(t, "`", p.Delimiters.End)
	assert.Equal(t, []Property{
		{Name: "nullCatalogMeansCurrent", Value: "true"},
		{Name: "useInformationSchema", Value: "true"},
	}, p.JDBCProperties)
}

func TestResolveOracleIgnoresConfiguredSchema(t *testing.T) {
	prof := profile(Oracle)
	prof.Schema = "OTHER_OWNER"

	p, err := Resolve(prof, Options{SchemaPrefix: true})
	require.NoError(t, err)
	assert.Equal(t, "APP1", p.Scope.Schema())
	assert.Empty(t, p.Scope.Catalog())
	assert.Equal(t, []Property{{Name: "remarksReporting", Value: "true"}}, p.JDBCProperties)
}

func TestResolveOracleRequiresUsernameWhenPrefixed(t *testing.T) {
	prof := profile(Oracle)
	prof.Username = ""

	_, err := Resolve(prof, Options{SchemaPrefix: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, mbgen.ErrConfig)

	_, err = Resolve(prof, Options{})
	assert.NoError(t, err)
}

func TestResolvePostgresAlwaysDelimits(t *testing.T) {
	for _, prefix := range []bool{false, true} {
		p, err := Resolve(profile(PostgreSQL), Options{SchemaPrefix: prefix})
		require.NoError(t, err)
		assert.True(t, p.DelimitIdentifiers)
		assert.True(t, p.Delimiters.IsZero())
	}

	p, err := Resolve(profile(MySQL), Options{})
	require.NoError(t, err)
	assert.False(t, p.DelimitIdentifiers)
}

func TestResolveConnectionURL(t *testing.T) {
	tests := []struct {
		tag    Tag
		port   int
		driver string
		url    string
	}{
		{MySQL, 0, "com.mysql.jdbc.Driver", "jdbc:mysql://db.local:3306/shop?useUnicode=true&useSSL=false&characterEncoding=utf8"},
		{MySQL8, 3307, "com.mysql.cj.jdbc.Driver", "jdbc:mysql://db.local:3307/shop?serverTimezone=UTC&useUnicode=true&useSSL=false&characterEncoding=utf8"},
		{Oracle, 0, "oracle.jdbc.OracleDriver", "jdbc:oracle:thin:@//db.local:1521/shop"},
		{PostgreSQL, 0, "org.postgresql.Driver", "jdbc:postgresql://db.local:5432/shop"},
		{SQLServer, 0, "com.microsoft.sqlserver.jdbc.SQLServerDriver", "jdbc:sqlserver://db.local:1433;databaseName=shop"},
		{SQLite, 0, "org.sqlite.JDBC", "jdbc:sqlite:shop"},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			prof := profile(tt.tag)
			prof.Port = tt.port
			p, err := Resolve(prof, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.driver, p.DriverClass)
			assert.Equal(t, tt.url, p.ConnectionURL)
			assert.Equal(t, "APP1", p.Username)
			assert.Equal(t, "secret", p.Password)
		})
	}
}

func TestResolveRawURL(t *testing.T) {
	p, err := Resolve(Profile{Dialect: "PostgreSQL", URL: "jdbc:postgresql://replica/app"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "jdbc:postgresql://replica/app", p.ConnectionURL)
	assert.Equal(t, ScopeCatalog, p.Scope.Mode)
}

func TestResolveValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
		option string
	}{
		{"unknown dialect", func(p *Profile) { p.Dialect = "DB2" }, "Dialect"},
		{"missing dialect", func(p *Profile) { p.Dialect = "" }, "Dialect"},
		{"missing host", func(p *Profile) { p.Host = "" }, "Host"},
		{"missing schema", func(p *Profile) { p.Schema = "" }, "Schema"},
		{"bad port", func(p *Profile) { p.Port = 70000 }, "Port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prof := profile(MySQL)
			tt.mutate(&prof)
			_, err := Resolve(prof, Options{})
			require.Error(t, err)
			var cfgErr *mbgen.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.option, cfgErr.Option)
		})
	}
}

func TestResolveSQLiteNeedsNoHost(t *testing.T) {
	p, err := Resolve(Profile{Dialect: "Sqlite", Schema: "/var/data/app.db"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "jdbc:sqlite:/var/data/app.db", p.ConnectionURL)
}

func TestResolveDoesNotShareState(t *testing.T) {
	a, err := Resolve(profile(MySQL), Options{})
	require.NoError(t, err)
	a.JDBCProperties[0].Value = "false"

	b, err := Resolve(profile(MySQL), Options{})
	require.NoError(t, err)
	assert.Equal(t, "true", b.JDBCProperties[0].Value)
}
