package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/nhle/tempmail-watcher/internal/model"
)

// requestTimeout caps each provider API call. A call exceeding it surfaces
// as a NetworkError for that poll iteration only.
const requestTimeout = 15 * time.Second

const userAgent = "tempmail-watcher/1.0 (+https://github.com/nhle/tempmail-watcher)"

// apiClient is a thin JSON-over-HTTP client shared by all provider
// implementations. It classifies failures into the provider error taxonomy:
// transport failures become NetworkError, non-2xx statuses and undecodable
// bodies become APIError.
type apiClient struct {
	name       model.ProviderType
	baseURL    string
	authHeader string
	httpClient *http.Client
}

// newAPIClient creates a client rooted at baseURL for the named provider.
func newAPIClient(name model.ProviderType, baseURL string) *apiClient {
	return &apiClient{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// get performs an HTTP GET, unmarshals the JSON response into result when
// result is non-nil, and returns the raw response body.
func (c *apiClient) get(ctx context.Context, path string, result interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// post performs an HTTP POST with a JSON body, unmarshals the JSON response
// into result when result is non-nil, and returns the raw response body.
func (c *apiClient) post(ctx context.Context, path string, body, result interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// do builds the request, applies auth and standard headers, and maps
// failures onto the provider error taxonomy.
func (c *apiClient) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) ([]byte, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{
			Provider: c.name,
			Err:      fmt.Errorf("%s %s: %w", method, path, err),
		}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, &NetworkError{
			Provider: c.name,
			Err:      fmt.Errorf("reading response of %s %s: %w", method, path, readErr),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Provider: c.name,
			Message: fmt.Sprintf(
				"unexpected status %d on %s %s", resp.StatusCode, method, path,
			),
		}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return nil, &APIError{
				Provider: c.name,
				Message: fmt.Sprintf(
					"undecodable response from %s %s: %v", method, path, err,
				),
			}
		}
	}

	return respBody, nil
}

const randAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// randString generates a random lowercase alphanumeric string of length n,
// used for throwaway account names, passwords and GraphQL client tokens.
func randString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = randAlphabet[rand.IntN(len(randAlphabet))]
	}
	return string(b)
}
