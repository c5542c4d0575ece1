package stacksmith

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingBody = `{"items": [
	{"id": "tomcat", "name": "tomcat", "category": "service", "versions": [
		{"version": "7.0.62", "branch": "stable"},
		{"version": "8.0.23", "branch": "stable"}
	]},
	{"id": "java", "name": "java", "category": "runtime", "versions": [
		{"version": "1.8.0", "branch": "stable"}
	]}
]}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, server.Client(), nil)
}

func TestListEntitiesParsesListing(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/components", r.URL.Path)
		_, _ = w.Write([]byte(listingBody))
	}))

	set, err := client.Components(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	expected := []VersionedEntity{
		NewEntity("java", "java", Component, []BranchedVersion{
			{"1.8.0", "stable"},
		}),
		NewEntity("tomcat", "tomcat", Component, []BranchedVersion{
			{"7.0.62", "stable"}, {"8.0.23", "stable"},
		}),
	}
	assert.Equal(t, expected, set.Entities())
}

func TestListEntitiesEmptyVersusMalformed(t *testing.T) {
	empty := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	set, err := empty.Components(context.Background())
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.Equal(t, 0, set.Len(), "a well-formed empty listing is an answer, not a failure")

	for name, body := range map[string]string{
		"not json":        `<html>oops</html>`,
		"no items":        `{"something": []}`,
		"item missing id": `{"items": [{"name": "tomcat", "category": "service", "versions": []}]}`,
		"bad version":     `{"items": [{"id": "t", "name": "t", "category": "service", "versions": [{"branch": "stable"}]}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			set, err := client.Components(context.Background())
			assert.Error(t, err)
			assert.Nil(t, set, "one malformed item invalidates the whole result")
		})
	}
}

func TestListEntitiesOses(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oses", r.URL.Path)
		_, _ = w.Write([]byte(`{"items": [{"id": "debian", "name": "debian", "category": "os", "versions": []}]}`))
	}))

	set, err := client.OperatingSystems(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	assert.Equal(t, OperatingSystem, set.Entities()[0].Category())
}

func TestListEntitiesUnknownCategory(t *testing.T) {
	client := NewClient("http://unused.invalid", nil, nil)
	_, err := client.ListEntities(context.Background(), Unknown)
	assert.Error(t, err, "unknown has no listing endpoint")
}

func TestListEntitiesManyItems(t *testing.T) {
	const n = 5000
	var items []string
	for i := 0; i < n; i++ {
		items = append(items, fmt.Sprintf(
			`{"id": "c%06d", "name": "c%06d", "category": "component", "versions": [{"version": "1.%d", "branch": "stable"}]}`,
			i, i, i))
	}
	body := `{"items": [` + strings.Join(items, ",") + `]}`

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))

	set, err := client.Components(context.Background())
	require.NoError(t, err)
	require.Equal(t, n, set.Len(), "no entries dropped or merged")

	for i, entity := range set.Entities() {
		expected := NewEntity(
			fmt.Sprintf("c%06d", i), fmt.Sprintf("c%06d", i), Component,
			[]BranchedVersion{{Version: fmt.Sprintf("1.%d", i), Branch: "stable"}})
		require.Zero(t, entity.Compare(expected), "entity %d out of order", i)
	}
}

func TestDependencies(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/components/tomcat/dependencies", r.URL.Path)
		_, _ = w.Write([]byte(`{"items": ["java", "apr", "java"]}`))
	}))

	ids, err := client.Dependencies(context.Background(), "tomcat")
	require.NoError(t, err)
	assert.Equal(t, []string{"apr", "java"}, ids, "sorted and deduplicated")
}

func TestDependenciesEmptyID(t *testing.T) {
	client := NewClient("http://unused.invalid", nil, nil)
	_, err := client.Dependencies(context.Background(), "")
	assert.Error(t, err)
}

func TestFlavors(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/components/tomcat/flavors", r.URL.Path)
		_, _ = w.Write([]byte(`{"items": [{"id": "gce"}, {"id": "aws"}]}`))
	}))

	ids, err := client.Flavors(context.Background(), "tomcat")
	require.NoError(t, err)
	assert.Equal(t, []string{"aws", "gce"}, ids)
}

func TestFlavorsRejectsDependencyShape(t *testing.T) {
	// The flavors endpoint returns objects; a bare string list is the
	// dependencies shape and must not parse.
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items": ["gce", "aws"]}`))
	}))

	_, err := client.Flavors(context.Background(), "tomcat")
	assert.Error(t, err)
}

func stackHandler(t *testing.T, captured *map[string]json.RawMessage) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		_, _ = w.Write([]byte(`{"id": "stack-1", "stack_url": "https://example.test/stacks/stack-1"}`))
	})
}

func TestCreateStackBodyShape(t *testing.T) {
	component, err := NewRequirement("tomcat", Ge, "8.0")
	require.NoError(t, err)
	osReq, err := NewRequirement("debian", Latest, "")
	require.NoError(t, err)

	cases := []struct {
		name       string
		components []Requirement
		os         *Requirement
		flavor     string
		wantKeys   []string
	}{
		{"component only", []Requirement{component}, nil, "", []string{"components"}},
		{"os only", nil, &osReq, "", []string{"os"}},
		{"flavor only", nil, nil, "gce", []string{"flavor"}},
		{"all three", []Requirement{component}, &osReq, "gce", []string{"components", "os", "flavor"}},
		{"none placeholders drop out", []Requirement{NoRequirement, NoRequirement}, &NoRequirement, "", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var captured map[string]json.RawMessage
			client := newTestClient(t, stackHandler(t, &captured))

			ref, err := client.CreateStack(context.Background(), tc.components, tc.os, tc.flavor)
			require.NoError(t, err)
			assert.Equal(t, "stack-1", ref.ID)

			var gotKeys []string
			for key := range captured {
				gotKeys = append(gotKeys, key)
			}
			assert.ElementsMatch(t, tc.wantKeys, gotKeys)
		})
	}
}

func TestCreateStackRequirementWireFormat(t *testing.T) {
	component, err := NewRequirement("tomcat", Ge, "8.0")
	require.NoError(t, err)

	var captured map[string]json.RawMessage
	client := newTestClient(t, stackHandler(t, &captured))

	_, err = client.CreateStack(context.Background(), []Requirement{component}, nil, "")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": "tomcat", "version": ">= 8.0"}]`, string(captured["components"]))
}

func TestCreateStackMalformedResponse(t *testing.T) {
	for name, body := range map[string]string{
		"not json":          `oops`,
		"missing stack_url": `{"id": "stack-1"}`,
		"missing id":        `{"stack_url": "https://example.test/stacks/stack-1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			ref, err := client.CreateStack(context.Background(), nil, nil, "")
			assert.Error(t, err)
			assert.Nil(t, ref)
		})
	}
}

func TestFetchDockerfile(t *testing.T) {
	const dockerfile = "FROM debian:8\nRUN install-things\n"
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stacks/stack-1.dockerfile", r.URL.Path)
		_, _ = w.Write([]byte(dockerfile))
	}))

	// The stack URL points at the test server; rebuild it from the
	// client's base by asking the server handler to match the path.
	ref := &StackReference{ID: "stack-1", StackURL: client.baseURL + "/stacks/stack-1"}

	got, err := client.FetchDockerfile(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, dockerfile, got, "body passes through unmodified")
}

func TestFetchDockerfileNilStack(t *testing.T) {
	client := NewClient("http://unused.invalid", nil, nil)
	_, err := client.FetchDockerfile(context.Background(), nil)
	assert.Error(t, err)
}

func TestFetchDockerfileEmptyBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	ref := &StackReference{ID: "stack-1", StackURL: client.baseURL + "/stacks/stack-1"}

	got, err := client.FetchDockerfile(context.Background(), ref)
	require.NoError(t, err, "an empty body is a valid, if unhelpful, answer")
	assert.Equal(t, "", got)
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, nil, nil)
	set, err := client.Components(context.Background())
	assert.Error(t, err)
	assert.Nil(t, set)
}

func TestStackReferenceDockerfileURL(t *testing.T) {
	ref := StackReference{ID: "s", StackURL: "https://example.test/stacks/s"}
	assert.Equal(t, "https://example.test/stacks/s.dockerfile", ref.DockerfileURL())
}
