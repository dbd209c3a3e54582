package templates

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed builtin/*.tex
var builtinFS embed.FS

// Store loads raw skeletons by id. Implementations return ErrNotFound for an
// unknown id and wrap ErrStoreUnavailable for infrastructure failures.
type Store interface {
	Load(ctx context.Context, id string) (string, error)
}

// EmbeddedStore serves the built-in templates compiled into the binary
type EmbeddedStore struct{}

// Load implements Store
func (EmbeddedStore) Load(_ context.Context, id string) (string, error) {
	if !ValidID(id) {
		return "", ErrNotFound
	}
	data, err := builtinFS.ReadFile("builtin/" + id + ".tex")
	if err != nil {
		return "", ErrNotFound
	}
	return string(data), nil
}

// BuiltinIDs lists the embedded template ids
func BuiltinIDs() []string {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if name := e.Name(); strings.HasSuffix(name, ".tex") {
			ids = append(ids, strings.TrimSuffix(name, ".tex"))
		}
	}
	sort.Strings(ids)
	return ids
}

// DirStore reads <Dir>/<id>.tex
type DirStore struct {
	Dir string
}

// Load implements Store
func (s DirStore) Load(_ context.Context, id string) (string, error) {
	if !ValidID(id) {
		return "", ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, id+".tex"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return string(data), nil
}

// ChainStore asks each store in turn; the first hit wins. Not-found moves on
// to the next store, any other error stops the chain.
type ChainStore []Store

// Load implements Store
func (c ChainStore) Load(ctx context.Context, id string) (string, error) {
	for _, s := range c {
		if s == nil {
			continue
		}
		skeleton, err := s.Load(ctx, id)
		if err == nil {
			return skeleton, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}
	return "", ErrNotFound
}
