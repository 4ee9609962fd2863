package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// ErrNotFound is wrapped by LoadError when a template does not exist.
var ErrNotFound = errors.New("template not found")

// Loader loads template sources by path.
type Loader interface {
	Load(ctx context.Context, path string) (string, error)
}

// LoadError reports a template that could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("source: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Code returns the registered error code.
func (e *LoadError) Code() string { return "E140" }

// clean normalises a template path to a slash-separated relative path.
func clean(p string) (string, error) {
	p = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(p, "\\", "/")), "/")
	if p == "" || p == "." {
		return "", fmt.Errorf("empty template path")
	}
	return p, nil
}

// DirLoader loads templates from a file system.
type DirLoader struct {
	FS fs.FS
}

// NewDirLoader returns a DirLoader rooted at dir.
func NewDirLoader(dir string) *DirLoader {
	return &DirLoader{FS: os.DirFS(dir)}
}

// Load implements Loader.
func (l *DirLoader) Load(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p, err := clean(name)
	if err != nil {
		return "", &LoadError{Path: name, Err: err}
	}
	data, err := fs.ReadFile(l.FS, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = ErrNotFound
		}
		return "", &LoadError{Path: name, Err: err}
	}
	return string(data), nil
}

// MapLoader serves templates from memory.
type MapLoader map[string]string

// Load implements Loader.
func (m MapLoader) Load(_ context.Context, name string) (string, error) {
	p, err := clean(name)
	if err != nil {
		return "", &LoadError{Path: name, Err: err}
	}
	src, ok := m[p]
	if !ok {
		src, ok = m[name]
	}
	if !ok {
		return "", &LoadError{Path: name, Err: ErrNotFound}
	}
	return src, nil
}

// Chain tries each loader in order and returns the first template found.
type Chain []Loader

// Load implements Loader.
func (c Chain) Load(ctx context.Context, name string) (string, error) {
	for _, l := range c {
		src, err := l.Load(ctx, name)
		if err == nil {
			return src, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}
	return "", &LoadError{Path: name, Err: ErrNotFound}
}
