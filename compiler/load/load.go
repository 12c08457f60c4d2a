// Package load reads generation files. A generation file describes the
// connection profile, the output layout, the feature toggles and the tables
// of a project. Defaults, the YAML file, MBGEN_ environment variables and
// command line flags are merged in that order, later layers winning.
package load

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/syssam/mbgen/compiler/gen"
)

// EnvPrefix prefixes the environment variables read by Load. A double
// underscore separates nested keys: MBGEN_CONNECTION__PASSWORD sets
// connection.password.
const EnvPrefix = "MBGEN_"

// FileNames are the generation file names searched for when no file is given.
var FileNames = []string{"mbgen.yaml", "mbgen.yml"}

// flagKeys maps command line flags to configuration keys. Flags not listed
// map to their snake_case name.
var flagKeys = map[string]string{
	"dialect":   "connection.dialect",
	"host":      "connection.host",
	"port":      "connection.port",
	"username":  "connection.username",
	"password":  "connection.password",
	"schema":    "connection.schema",
	"url":       "connection.url",
	"java":      "engine.java",
	"classpath": "engine.classpath",
	"overwrite": "flags.overwrite_mapping",
}

// defaults holds the values used when no layer sets them.
func defaults() map[string]any {
	return map[string]any{
		"encoding":         gen.DefaultEncoding,
		"driver_dir":       "lib",
		"workers":          4,
		"engine.java":      "java",
		"flags.custom_dao": true,
	}
}

// Load reads the generation file at path. An empty path searches the
// working directory for one of FileNames; finding none is not an error and
// the configuration comes from the environment and the flags alone.
// Relative project and driver paths are resolved against the file directory.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load: defaults: %w", err)
	}
	path = findFile(path)
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load: reading %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load: environment: %w", err)
	}
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load: flags: %w", err)
		}
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("load: decoding configuration: %w", err)
	}
	base, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if base, err = filepath.Abs(filepath.Dir(path)); err != nil {
			return nil, err
		}
		cfg.File = path
	}
	cfg.Project = relativeTo(cfg.Project, base)
	cfg.DriverDir = relativeTo(cfg.DriverDir, base)
	return &cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func findFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range FileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func relativeTo(path, base string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
