// Package testenv provides isolated test environments with temp
// directories and environment variable overrides. It creates a cache
// directory and sets STACKSMITH_DOCKER_CACHE_DIR (restored on cleanup) so
// tests never touch the real user cache.
package testenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/schmitthub/stacksmith-docker/internal/config"
)

// IsolatedDirs holds the directory paths created for the test.
type IsolatedDirs struct {
	Base   string // temp root (parent of all dirs)
	Cache  string
	Deploy string
}

// Env is a test environment with isolated directories and an optional
// parsed config.
type Env struct {
	Dirs   IsolatedDirs
	Config *config.FileConfig
}

// Option configures an Env during construction.
type Option func(t *testing.T, e *Env)

// WithConfig parses the YAML into a config.FileConfig held on the Env.
func WithConfig(yaml string) Option {
	return func(t *testing.T, e *Env) {
		t.Helper()
		cfg, err := config.FromString(yaml)
		if err != nil {
			t.Fatalf("testenv: creating config: %v", err)
		}
		e.Config = &cfg
	}
}

// New creates an isolated test environment: a temp directory with cache
// and deploy subdirectories, with STACKSMITH_DOCKER_CACHE_DIR pointed at
// the cache dir for the duration of the test.
func New(t *testing.T, opts ...Option) *Env {
	t.Helper()

	// Resolve symlinks on the base temp dir so paths match os.Getwd()
	// after chdir (macOS: /var → /private/var).
	base, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("testenv: resolving temp dir symlinks: %v", err)
	}

	dirs := IsolatedDirs{
		Base:   base,
		Cache:  filepath.Join(base, "cache"),
		Deploy: filepath.Join(base, "deploy"),
	}

	for _, dir := range []string{dirs.Cache, dirs.Deploy} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("testenv: creating dir %s: %v", dir, err)
		}
	}

	t.Setenv("STACKSMITH_DOCKER_CACHE_DIR", dirs.Cache)

	env := &Env{Dirs: dirs}

	for _, opt := range opts {
		opt(t, env)
	}

	return env
}
