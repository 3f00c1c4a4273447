package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	csrfCookieName = "csrftoken"
	csrfHeaderName = "X-CSRFToken"
	csrfPath       = "/useraccounts/api/auth/csrf/"
)

// Client is a thin HTTP client for the Tasko REST API.
// It keeps the Django session in a cookie jar, attaches the CSRF token
// on mutating verbs, and handles JSON marshaling. It never retries.
type Client struct {
	baseURL    string
	base       *url.URL
	jar        http.CookieJar
	httpClient *http.Client
	log        *zap.SugaredLogger

	// csrfToken is the token returned by the CSRF endpoint; the
	// csrftoken cookie takes precedence when present.
	csrfToken string
}

// NewClient creates a new Tasko HTTP client. The baseURL should be the
// root URL of the Tasko site (e.g., https://tasko.example.com).
func NewClient(baseURL string, timeout time.Duration, log *zap.SugaredLogger) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Client{
		baseURL: baseURL,
		base:    base,
		jar:     jar,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		log: log,
	}, nil
}

// BaseURL returns the root URL the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Cookies returns the cookies currently held for the base URL.
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.base)
}

// SetCookies seeds the jar, typically with a session restored from the keyring.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	c.jar.SetCookies(c.base, cookies)
}

// CSRFToken returns the token sent with mutating requests: the csrftoken
// cookie when set, otherwise the last token fetched from the CSRF endpoint.
func (c *Client) CSRFToken() string {
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == csrfCookieName && ck.Value != "" {
			return ck.Value
		}
	}
	return c.csrfToken
}

// FetchCSRFToken asks the server for a fresh CSRF token. The response also
// sets the csrftoken cookie.
func (c *Client) FetchCSRFToken(ctx context.Context) (string, error) {
	var resp struct {
		CSRFToken string `json:"csrfToken"`
	}
	if err := c.Get(ctx, csrfPath, &resp); err != nil {
		return "", fmt.Errorf("fetching CSRF token: %w", err)
	}
	c.csrfToken = resp.CSRFToken
	return resp.CSRFToken, nil
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Post performs an HTTP POST request with a JSON body and unmarshals
// the JSON response.
func (c *Client) Post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// Put performs an HTTP PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

// Patch performs an HTTP PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, result)
}

// Delete performs an HTTP DELETE request.
func (c *Client) Delete(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, result)
}

// do is the core HTTP method that builds the request, attaches the CSRF
// token, classifies error statuses, and handles JSON (de)serialization.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && method != http.MethodHead {
		if token := c.CSRFToken(); token != "" {
			req.Header.Set(csrfHeaderName, token)
		}
		// Django rejects HTTPS mutations without a same-origin Referer.
		req.Header.Set("Referer", c.baseURL+"/")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warnw("request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	c.log.Debugw("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Status: resp.StatusCode, Message: authMessage(respBody)}
	case resp.StatusCode == http.StatusBadRequest:
		return parseFieldErrors(respBody)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &StatusError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(respBody)),
		}
	}

	// No content to parse (e.g. 204).
	if result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}
