package adapter

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// restClient is the shared HTTP plumbing for integrations that pull
// over REST. Auth is either basic credentials or a header token.
type restClient struct {
	baseURL    string
	httpClient *http.Client

	username string
	password string

	// tokenHeader/tokenValue set a custom auth header (e.g. X-API-Token)
	tokenHeader string
	tokenValue  string
}

// restClientOptions configures a restClient
type restClientOptions struct {
	BaseURL     string
	Username    string
	Password    string
	TokenHeader string
	TokenValue  string
	VerifyTLS   bool
	Timeout     time.Duration
}

func newRESTClient(opts restClientOptions) *restClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport
	if !opts.VerifyTLS {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &restClient{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		username:    opts.Username,
		password:    opts.Password,
		tokenHeader: opts.TokenHeader,
		tokenValue:  opts.TokenValue,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// getJSON performs a GET against path and decodes the response into out
func (c *restClient) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// postJSON performs a POST with a JSON body and decodes the response into out.
// body may be nil; out may be nil when the response is discarded.
func (c *restClient) postJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *restClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	if c.tokenHeader != "" {
		req.Header.Set(c.tokenHeader, c.tokenValue)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// setCookie switches the client to session-cookie auth. Some controllers
// (ACI) authenticate once and return a cookie instead of per-request auth.
func (c *restClient) setCookie(name, value string) {
	c.tokenHeader = "Cookie"
	c.tokenValue = name + "=" + value
}
