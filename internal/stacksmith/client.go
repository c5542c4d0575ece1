package stacksmith

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultBaseURL is the production Stacksmith API root.
const DefaultBaseURL = "https://stacksmith.bitnami.com/api/v1"

// Client talks to the Stacksmith API. It holds no mutable state, performs
// no caching and no retries; one method call is one best-effort request,
// so a single Client is safe for concurrent use as long as its transport
// is. Operational failures (transport, malformed payload, missing field)
// come back as errors with a diagnostic logged; they never panic.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient builds a client for the API rooted at baseURL. An empty
// baseURL selects DefaultBaseURL; a nil httpClient uses
// http.DefaultClient; a nil logger discards diagnostics. Timeout policy
// belongs to the supplied transport, not this layer.
func NewClient(baseURL string, httpClient *http.Client, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// ListEntities fetches the catalog entities of the given category, in
// entity order. A well-formed listing with no items yields an empty,
// non-nil set; that is a real answer, unlike an error.
func (c *Client) ListEntities(ctx context.Context, category Category) (*EntitySet, error) {
	path := category.listPath()
	if path == "" {
		c.logger.Debug("category has no listing endpoint", "category", category)
		return nil, fmt.Errorf("category %s has no listing endpoint", category)
	}

	body, err := c.get(ctx, c.baseURL+"/"+path)
	if err != nil {
		return nil, err
	}

	set, err := parseEntities([]byte(body))
	if err != nil {
		c.logger.Warn("parsing entity listing", "category", category, "err", err)
		return nil, fmt.Errorf("parse %s listing: %w", category, err)
	}
	return set, nil
}

// Components lists the catalog's components.
func (c *Client) Components(ctx context.Context) (*EntitySet, error) {
	return c.ListEntities(ctx, Component)
}

// OperatingSystems lists the catalog's operating systems.
func (c *Client) OperatingSystems(ctx context.Context) (*EntitySet, error) {
	return c.ListEntities(ctx, OperatingSystem)
}

// Dependencies fetches the dependency ids of the entity with the given id,
// sorted and deduplicated.
func (c *Client) Dependencies(ctx context.Context, id string) ([]string, error) {
	if id == "" {
		c.logger.Debug("cannot fetch dependencies for an empty entity id")
		return nil, fmt.Errorf("entity id is empty")
	}

	body, err := c.get(ctx, c.baseURL+"/components/"+id+"/dependencies")
	if err != nil {
		return nil, err
	}

	ids, err := parseDependencyIDs([]byte(body))
	if err != nil {
		c.logger.Warn("parsing dependency ids", "id", id, "err", err)
		return nil, fmt.Errorf("parse dependencies for %s: %w", id, err)
	}
	return ids, nil
}

// Flavors fetches the flavor ids available for the entity with the given
// id, sorted and deduplicated.
func (c *Client) Flavors(ctx context.Context, id string) ([]string, error) {
	if id == "" {
		c.logger.Debug("cannot fetch flavors for an empty entity id")
		return nil, fmt.Errorf("entity id is empty")
	}

	body, err := c.get(ctx, c.baseURL+"/components/"+id+"/flavors")
	if err != nil {
		return nil, err
	}

	ids, err := parseFlavorIDs([]byte(body))
	if err != nil {
		c.logger.Warn("parsing flavor ids", "id", id, "err", err)
		return nil, fmt.Errorf("parse flavors for %s: %w", id, err)
	}
	return ids, nil
}

// stackRequest is the stacks endpoint's request body. Every key is
// optional; omitempty drops the ones with nothing to say.
type stackRequest struct {
	Components []Requirement `json:"components,omitempty"`
	OS         *Requirement  `json:"os,omitempty"`
	Flavor     string        `json:"flavor,omitempty"`
}

// CreateStack asks the API to compose a stack matching the given
// requirements. Placeholder (IsNone) requirements are filtered out; a body
// left empty by filtering is still sent, and the API decides what an
// unconstrained stack means.
func (c *Client) CreateStack(ctx context.Context, components []Requirement, os *Requirement, flavor string) (*StackReference, error) {
	var payload stackRequest
	for _, component := range components {
		if !component.IsNone() {
			payload.Components = append(payload.Components, component)
		}
	}
	if os != nil && !os.IsNone() {
		payload.OS = os
	}
	payload.Flavor = flavor

	encoded, err := json.Marshal(payload)
	if err != nil {
		c.logger.Warn("encoding stack request", "err", err)
		return nil, fmt.Errorf("encode stack request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stacks", bytes.NewReader(encoded))
	if err != nil {
		c.logger.Warn("building stack request", "err", err)
		return nil, fmt.Errorf("build stack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.execute(req)
	if err != nil {
		return nil, err
	}

	ref, err := parseStackReference([]byte(body))
	if err != nil {
		c.logger.Warn("parsing stack reference", "err", err)
		return nil, fmt.Errorf("parse stack reference: %w", err)
	}
	return ref, nil
}

// FetchDockerfile retrieves the Dockerfile generated for the given stack
// and returns its text verbatim. The API can legitimately return an empty
// body; callers that need content must check for it.
func (c *Client) FetchDockerfile(ctx context.Context, stack *StackReference) (string, error) {
	if stack == nil {
		c.logger.Debug("cannot fetch a Dockerfile for a nil stack reference")
		return "", fmt.Errorf("stack reference is nil")
	}

	body, err := c.get(ctx, stack.DockerfileURL())
	if err != nil {
		return "", err
	}
	c.logger.Debug("Dockerfile received", "stack", stack.ID, "bytes", len(body))
	return body, nil
}

func (c *Client) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Warn("building API request", "url", url, "err", err)
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}
	return c.execute(req)
}

// execute performs one request and drains the body into a string. The
// response body is closed on every path; a close failure gets its own
// diagnostic. Non-2xx statuses are logged but left to the parsing layer:
// the API signals errors through its payloads.
func (c *Client) execute(req *http.Request) (string, error) {
	c.logger.Debug("executing API request", "method", req.Method, "url", req.URL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("contacting Stacksmith API", "url", req.URL, "err", err)
		return "", fmt.Errorf("contact Stacksmith API: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("closing API response body", "err", closeErr)
		}
	}()

	c.logger.Debug("API response", "status", resp.Status)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("reading API response body", "url", req.URL, "err", err)
		return "", fmt.Errorf("read API response: %w", err)
	}
	return string(body), nil
}

// Wire shapes. Required fields are pointers so that a key the API omitted
// is distinguishable from one it sent empty; a missing required key fails
// the whole parse, matching the all-or-nothing result contract.
type wireVersion struct {
	Version *string `json:"version"`
	Branch  *string `json:"branch"`
}

type wireEntity struct {
	ID       *string       `json:"id"`
	Name     *string       `json:"name"`
	Category *string       `json:"category"`
	Versions []wireVersion `json:"versions"`
}

type wireEntityList struct {
	Items *[]wireEntity `json:"items"`
}

func parseEntities(data []byte) (*EntitySet, error) {
	var listing wireEntityList
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	if listing.Items == nil {
		return nil, fmt.Errorf("listing has no items array")
	}

	set := &EntitySet{}
	for i, item := range *listing.Items {
		if item.ID == nil || item.Name == nil || item.Category == nil {
			return nil, fmt.Errorf("entity %d is missing id, name, or category", i)
		}
		versions := make([]BranchedVersion, 0, len(item.Versions))
		for j, v := range item.Versions {
			if v.Version == nil || v.Branch == nil {
				return nil, fmt.Errorf("entity %d version %d is missing version or branch", i, j)
			}
			versions = append(versions, BranchedVersion{Version: *v.Version, Branch: *v.Branch})
		}
		set.Insert(NewEntity(*item.ID, *item.Name, CategoryFromWire(*item.Category), versions))
	}
	return set, nil
}

func parseDependencyIDs(data []byte) ([]string, error) {
	var listing struct {
		Items *[]string `json:"items"`
	}
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	if listing.Items == nil {
		return nil, fmt.Errorf("listing has no items array")
	}
	return sortedIDs(*listing.Items), nil
}

func parseFlavorIDs(data []byte) ([]string, error) {
	var listing struct {
		Items *[]struct {
			ID *string `json:"id"`
		} `json:"items"`
	}
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	if listing.Items == nil {
		return nil, fmt.Errorf("listing has no items array")
	}

	ids := make([]string, 0, len(*listing.Items))
	for i, item := range *listing.Items {
		if item.ID == nil {
			return nil, fmt.Errorf("flavor %d is missing its id", i)
		}
		ids = append(ids, *item.ID)
	}
	return sortedIDs(ids), nil
}

func parseStackReference(data []byte) (*StackReference, error) {
	var ref struct {
		ID       *string `json:"id"`
		StackURL *string `json:"stack_url"`
	}
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, err
	}
	if ref.ID == nil || ref.StackURL == nil {
		return nil, fmt.Errorf("stack reference is missing id or stack_url")
	}
	return &StackReference{ID: *ref.ID, StackURL: *ref.StackURL}, nil
}

func sortedIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.Strings(out)

	deduped := out[:0]
	for _, id := range out {
		if len(deduped) > 0 && deduped[len(deduped)-1] == id {
			continue
		}
		deduped = append(deduped, id)
	}
	return deduped
}
