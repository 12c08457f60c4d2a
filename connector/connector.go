// Package connector locates the JDBC driver artifact of a dialect.
package connector

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/syssam/mbgen"
	"github.com/syssam/mbgen/dialect"
)

// Resolver returns the location of the driver artifact of a dialect.
type Resolver interface {
	Resolve(ctx context.Context, tag dialect.Tag) (string, error)
}

// The ResolverFunc type is an adapter to allow the use of ordinary functions as resolvers.
type ResolverFunc func(context.Context, dialect.Tag) (string, error)

// Resolve calls f(ctx, tag).
func (f ResolverFunc) Resolve(ctx context.Context, tag dialect.Tag) (string, error) {
	return f(ctx, tag)
}

// Dir resolves drivers from a directory holding the connector jars named
// by the dialect table.
type Dir string

// Resolve implements Resolver.
func (d Dir) Resolve(_ context.Context, tag dialect.Tag) (string, error) {
	spec, err := dialect.Lookup(string(tag))
	if err != nil {
		return "", err
	}
	path, err := filepath.Abs(filepath.Join(string(d), spec.Connector))
	if err != nil {
		return "", mbgen.NewDriverError(string(tag), spec.Connector, err)
	}
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return "", mbgen.NewDriverError(string(tag), path, err)
	case info.IsDir():
		return "", mbgen.NewDriverError(string(tag), path, errors.New("driver artifact is a directory"))
	}
	return path, nil
}

// Static resolves drivers from a fixed dialect to path table.
type Static map[dialect.Tag]string

// Resolve implements Resolver.
func (s Static) Resolve(_ context.Context, tag dialect.Tag) (string, error) {
	path, ok := s[tag]
	if !ok || path == "" {
		return "", mbgen.NewDriverError(string(tag), "", errors.New("no driver registered"))
	}
	return path, nil
}

// Chain tries each resolver in order and returns the first location found.
// It fails with the error of the last resolver.
func Chain(rs ...Resolver) Resolver {
	return ResolverFunc(func(ctx context.Context, tag dialect.Tag) (string, error) {
		err := error(mbgen.NewDriverError(string(tag), "", errors.New("no resolver configured")))
		for _, r := range rs {
			var path string
			if path, err = r.Resolve(ctx, tag); err == nil {
				return path, nil
			}
		}
		return "", err
	})
}
