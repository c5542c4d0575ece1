package test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/schmitthub/stacksmith-docker/e2e/harness"
)

func TestGenerateWritesDockerfile(t *testing.T) {
	h := &harness.Harness{T: t}
	setup := h.NewIsolatedFS(nil)
	api := harness.NewFakeAPI(t)

	outputDir := filepath.Join(setup.BaseDir, "deploy-out")

	result := h.Run(
		"generate",
		"--dangerous-inline",
		"--api-base", api.Server.URL,
		"--component", "tomcat",
		"--component-operator", ">=",
		"--component-version", "8.0",
		"--os", "debian",
		"--flavor", "gce",
		"--output", outputDir,
	)
	if result.Err != nil {
		t.Fatalf("generate failed: %v", result.Err)
	}

	path := filepath.Join(outputDir, "Dockerfile")
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected Dockerfile to exist: %v", err)
	}
	if string(content) != api.Dockerfile {
		t.Errorf("Dockerfile content mismatch:\ngot:  %q\nwant: %q", content, api.Dockerfile)
	}

	for _, key := range []string{"components", "os", "flavor"} {
		if _, ok := api.LastStackBody[key]; !ok {
			t.Errorf("stack request body missing %q key", key)
		}
	}
}

func TestGenerateComponentOnlyBody(t *testing.T) {
	h := &harness.Harness{T: t}
	setup := h.NewIsolatedFS(nil)
	api := harness.NewFakeAPI(t)

	result := h.Run(
		"generate",
		"--dangerous-inline",
		"--api-base", api.Server.URL,
		"--component", "tomcat",
		"--output", filepath.Join(setup.BaseDir, "deploy-out"),
	)
	if result.Err != nil {
		t.Fatalf("generate failed: %v", result.Err)
	}

	if _, ok := api.LastStackBody["components"]; !ok {
		t.Error("stack request body missing components key")
	}
	for _, key := range []string{"os", "flavor"} {
		if _, ok := api.LastStackBody[key]; ok {
			t.Errorf("stack request body should not have %q key", key)
		}
	}
}

func TestGenerateEmptyDockerfileFails(t *testing.T) {
	h := &harness.Harness{T: t}
	setup := h.NewIsolatedFS(nil)
	api := harness.NewFakeAPI(t)
	api.Dockerfile = ""

	result := h.Run(
		"generate",
		"--dangerous-inline",
		"--api-base", api.Server.URL,
		"--component", "tomcat",
		"--output", filepath.Join(setup.BaseDir, "deploy-out"),
	)
	if result.Err == nil {
		t.Fatal("expected generate to fail on an empty Dockerfile")
	}
	if !strings.Contains(result.Err.Error(), "empty Dockerfile") {
		t.Errorf("unexpected error: %v", result.Err)
	}
}

func TestGenerateUnreachableAPIFails(t *testing.T) {
	h := &harness.Harness{T: t}
	setup := h.NewIsolatedFS(nil)

	result := h.Run(
		"generate",
		"--dangerous-inline",
		"--api-base", "http://127.0.0.1:1",
		"--component", "tomcat",
		"--output", filepath.Join(setup.BaseDir, "deploy-out"),
	)
	if result.Err == nil {
		t.Fatal("expected generate to fail when the API is unreachable")
	}
}

func TestComponentsListsCatalog(t *testing.T) {
	h := &harness.Harness{T: t}
	h.NewIsolatedFS(nil)
	api := harness.NewFakeAPI(t)

	result := h.Run("components", "--api-base", api.Server.URL)
	if result.Err != nil {
		t.Fatalf("components failed: %v", result.Err)
	}
}

func TestConfigFileDrivesGenerate(t *testing.T) {
	h := &harness.Harness{T: t}
	setup := h.NewIsolatedFS(nil)
	api := harness.NewFakeAPI(t)

	outputDir := filepath.Join(setup.BaseDir, "deploy-out")
	configPath := filepath.Join(setup.ProjectDir, "stacksmith-docker.yaml")
	configBody := "api_base: " + api.Server.URL + "\n" +
		"output: " + outputDir + "\n" +
		"component: tomcat\n" +
		"component_operator: '>='\n" +
		"component_version: '8.0'\n"
	if err := os.WriteFile(configPath, []byte(configBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	result := h.Run("generate", "--dangerous-inline", "--config", configPath)
	if result.Err != nil {
		t.Fatalf("generate failed: %v", result.Err)
	}

	if _, err := os.Stat(filepath.Join(outputDir, "Dockerfile")); err != nil {
		t.Fatalf("expected Dockerfile to exist: %v", err)
	}
}
