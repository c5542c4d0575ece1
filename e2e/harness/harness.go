// Package harness drives the real cobra command tree inside isolated test
// environments, optionally against a fake Stacksmith API.
package harness

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/schmitthub/stacksmith-docker/internal/cmd"
	"github.com/schmitthub/stacksmith-docker/internal/testenv"
)

// Harness provides an isolated filesystem environment for integration
// tests and runs CLI commands through the full cobra pipeline.
type Harness struct {
	T *testing.T
}

// RunResult holds the outcome of a CLI command execution.
type RunResult struct {
	ExitCode int
	Err      error
}

// SetupResult holds the resolved paths from NewIsolatedFS.
type SetupResult struct {
	BaseDir    string
	ProjectDir string
	CacheDir   string
	DeployDir  string
}

// FSOptions allows overriding the project directory name.
type FSOptions struct {
	ProjectDir string // subdirectory name under base (default: "testproject")
}

// NewIsolatedFS creates an isolated test environment, chdirs into a fresh
// project directory, and restores the working directory on cleanup.
func (h *Harness) NewIsolatedFS(opts *FSOptions) *SetupResult {
	h.T.Helper()

	if opts == nil {
		opts = &FSOptions{}
	}
	if opts.ProjectDir == "" {
		opts.ProjectDir = "testproject"
	}

	env := testenv.New(h.T)

	projectDir := filepath.Join(env.Dirs.Base, opts.ProjectDir)
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		h.T.Fatalf("harness: creating project dir %s: %v", projectDir, err)
	}

	prevDir, err := os.Getwd()
	if err != nil {
		h.T.Fatalf("harness: getting cwd: %v", err)
	}
	if err := os.Chdir(projectDir); err != nil {
		h.T.Fatalf("harness: chdir to project dir: %v", err)
	}
	h.T.Cleanup(func() {
		_ = os.Chdir(prevDir)
	})

	return &SetupResult{
		BaseDir:    env.Dirs.Base,
		ProjectDir: projectDir,
		CacheDir:   env.Dirs.Cache,
		DeployDir:  env.Dirs.Deploy,
	}
}

// Run executes a CLI command through the full cmd.NewRootCmd cobra
// pipeline.
func (h *Harness) Run(args ...string) *RunResult {
	h.T.Helper()

	rootCmd := cmd.NewRootCmd("test", "test")
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	exitCode := 0
	if err != nil {
		exitCode = 1
	}

	return &RunResult{ExitCode: exitCode, Err: err}
}

// FakeAPI is a minimal in-process Stacksmith API for e2e tests.
type FakeAPI struct {
	Server *httptest.Server

	// Dockerfile is the body served for any *.dockerfile request.
	Dockerfile string
	// LastStackBody records the most recent stacks request body.
	LastStackBody map[string]any
}

// NewFakeAPI starts a fake API serving fixed listings, a stacks endpoint
// that echoes back a stack rooted at the server, and a Dockerfile
// endpoint. It shuts down on test cleanup.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	api := &FakeAPI{Dockerfile: "FROM fake-base\nRUN echo stacksmith\n"}

	mux := http.NewServeMux()
	mux.HandleFunc("/components", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items": [
			{"id": "tomcat", "name": "tomcat", "category": "service",
			 "versions": [{"version": "8.0.23", "branch": "stable"}]},
			{"id": "java", "name": "java", "category": "runtime",
			 "versions": [{"version": "1.8.0", "branch": "stable"}]}
		]}`))
	})
	mux.HandleFunc("/oses", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items": [
			{"id": "debian", "name": "debian", "category": "os",
			 "versions": [{"version": "8", "branch": "stable"}]}
		]}`))
	})
	mux.HandleFunc("/stacks", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		api.LastStackBody = body
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":        "stack-1",
			"stack_url": api.Server.URL + "/stacks/stack-1",
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".dockerfile") {
			_, _ = w.Write([]byte(api.Dockerfile))
			return
		}
		http.NotFound(w, r)
	})

	api.Server = httptest.NewServer(mux)
	t.Cleanup(api.Server.Close)

	return api
}
