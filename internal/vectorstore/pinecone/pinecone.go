// ABOUTME: Minimal Pinecone REST client: index bootstrap, upsert, and query
// ABOUTME: Creates the serverless index with cosine metric when absent, with bounded polling
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/embedops/embedops/internal/core"
	"github.com/embedops/embedops/internal/models"
)

// Ensure Index implements the capability interface.
var _ core.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultControlPlaneURL = "https://api.pinecone.io"
	DefaultTimeout         = 30 * time.Second
	apiVersion             = "2024-07"

	createPollAttempts = 10
	createPollDelay    = 500 * time.Millisecond
)

// Config holds connection details for Pinecone.
type Config struct {
	APIKey          string
	IndexName       string
	Cloud           string
	Region          string
	ControlPlaneURL string
	Timeout         time.Duration
}

// Client talks to the Pinecone control plane.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient validates the config and returns a control-plane client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: Pinecone API key is required", models.ErrConfig)
	}
	if strings.TrimSpace(cfg.IndexName) == "" {
		return nil, fmt.Errorf("%w: Pinecone index name is required", models.ErrConfig)
	}
	if cfg.ControlPlaneURL == "" {
		cfg.ControlPlaneURL = DefaultControlPlaneURL
	}
	if cfg.Cloud == "" {
		cfg.Cloud = "aws"
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// indexDescription is the control-plane view of one index.
type indexDescription struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric"`
	Host      string `json:"host"`
	Status    struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

type indexList struct {
	Indexes []indexDescription `json:"indexes"`
}

type createIndexRequest struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric"`
	Spec      struct {
		Serverless struct {
			Cloud  string `json:"cloud"`
			Region string `json:"region"`
		} `json:"serverless"`
	} `json:"spec"`
}

// EnsureIndex returns a data-plane handle for the configured index,
// creating it (cosine metric, serverless) when it does not exist yet.
// Creation is asynchronous; readiness is polled a bounded number of
// times before giving up.
func (c *Client) EnsureIndex(ctx context.Context, dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: invalid embedding dimension %d", models.ErrConfig, dimension)
	}

	desc, found, err := c.describeIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: describing index %q: %v", models.ErrVectorStore, c.cfg.IndexName, err)
	}

	if !found {
		if err := c.createIndex(ctx, dimension); err != nil {
			return nil, fmt.Errorf("%w: creating index %q (cloud=%s, region=%s): %v",
				models.ErrVectorStore, c.cfg.IndexName, c.cfg.Cloud, c.cfg.Region, err)
		}

		for attempt := 0; attempt < createPollAttempts; attempt++ {
			select {
			case <-time.After(createPollDelay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: waiting for index creation: %v", models.ErrVectorStore, ctx.Err())
			}

			desc, found, err = c.describeIndex(ctx)
			if err != nil {
				return nil, fmt.Errorf("%w: polling index %q: %v", models.ErrVectorStore, c.cfg.IndexName, err)
			}
			if found && desc.Status.Ready {
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: index %q not visible after creation", models.ErrVectorStore, c.cfg.IndexName)
		}
	}

	if desc.Dimension != 0 && desc.Dimension != dimension {
		return nil, fmt.Errorf("%w: index %q has dimension %d, model declares %d",
			models.ErrVectorStore, c.cfg.IndexName, desc.Dimension, dimension)
	}
	if desc.Host == "" {
		return nil, fmt.Errorf("%w: index %q has no host yet; retry shortly", models.ErrVectorStore, c.cfg.IndexName)
	}

	host := desc.Host
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}

	return &Index{
		host:       host,
		apiKey:     c.cfg.APIKey,
		httpClient: c.httpClient,
	}, nil
}

func (c *Client) describeIndex(ctx context.Context) (indexDescription, bool, error) {
	url := fmt.Sprintf("%s/indexes/%s", c.cfg.ControlPlaneURL, c.cfg.IndexName)

	var desc indexDescription
	status, err := c.doJSON(ctx, http.MethodGet, url, nil, &desc)
	if err != nil {
		return indexDescription{}, false, err
	}
	if status == http.StatusNotFound {
		return indexDescription{}, false, nil
	}
	if status != http.StatusOK {
		return indexDescription{}, false, fmt.Errorf("describe returned status %d", status)
	}
	return desc, true, nil
}

func (c *Client) createIndex(ctx context.Context, dimension int) error {
	req := createIndexRequest{
		Name:      c.cfg.IndexName,
		Dimension: dimension,
		Metric:    "cosine",
	}
	req.Spec.Serverless.Cloud = c.cfg.Cloud
	req.Spec.Serverless.Region = c.cfg.Region

	status, err := c.doJSON(ctx, http.MethodPost, c.cfg.ControlPlaneURL+"/indexes", req, nil)
	if err != nil {
		return err
	}
	// 409: another process created it first, which is fine
	if status != http.StatusCreated && status != http.StatusOK && status != http.StatusConflict {
		return fmt.Errorf("create returned status %d", status)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, url string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Api-Key", c.cfg.APIKey)
	req.Header.Set("X-Pinecone-API-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// Index is a data-plane handle bound to one Pinecone index host.
type Index struct {
	host       string
	apiKey     string
	httpClient *http.Client
}

type upsertRequest struct {
	Vectors   []models.Vector `json:"vectors"`
	Namespace string          `json:"namespace,omitempty"`
}

type queryRequest struct {
	Vector          []float32      `json:"vector"`
	TopK            int            `json:"topK"`
	Namespace       string         `json:"namespace,omitempty"`
	Filter          map[string]any `json:"filter,omitempty"`
	IncludeMetadata bool           `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []models.Match `json:"matches"`
}

// Upsert writes a batch of vectors into the namespace.
func (i *Index) Upsert(ctx context.Context, namespace string, vectors []models.Vector) error {
	if len(vectors) == 0 {
		return nil
	}

	req := upsertRequest{Vectors: vectors, Namespace: namespace}
	return i.post(ctx, "/vectors/upsert", req, nil)
}

// Query returns the topK nearest matches in the namespace under the
// given metadata filter, similarity-descending.
func (i *Index) Query(ctx context.Context, namespace string, vector []float32, topK int, filter models.MetadataFilter) ([]models.Match, error) {
	req := queryRequest{
		Vector:          vector,
		TopK:            topK,
		Namespace:       namespace,
		Filter:          encodeFilter(filter),
		IncludeMetadata: true,
	}

	var resp queryResponse
	if err := i.post(ctx, "/query", req, &resp); err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

// encodeFilter turns the equality filter into Pinecone's $eq form.
// Present fields are ANDed by living in one filter object.
func encodeFilter(f models.MetadataFilter) map[string]any {
	if f.Empty() {
		return nil
	}

	out := make(map[string]any, 3)
	if f.DocID != "" {
		out["doc_id"] = map[string]any{"$eq": f.DocID}
	}
	if f.Source != "" {
		out["source"] = map[string]any{"$eq": f.Source}
	}
	if f.Version != nil {
		out["version"] = map[string]any{"$eq": *f.Version}
	}
	return out
}

func (i *Index) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.host+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Api-Key", i.apiKey)
	req.Header.Set("X-Pinecone-API-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("pinecone %s returned status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
