// Package apiclient issues requests against the storefront backend API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"storefront/internal/credentials"
)

// RotatedTokenHeader carries a replacement token on any backend response.
const RotatedTokenHeader = "x-auth-token"

// Doer is the part of Client the stores depend on.
type Doer interface {
	Do(ctx context.Context, method, endpoint string, body any, header http.Header) (*http.Response, error)
}

type Client struct {
	BaseURL     string
	HTTP        *http.Client
	Headers     http.Header
	Credentials credentials.Store
}

// New returns a client with its own cookie jar so backend cookies are always
// sent back. No timeout is set; callers bound requests through ctx.
func New(baseURL string, store credentials.Store) *Client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		log.Println("[API] [ERROR] cookie jar init failed:", err)
	}
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HTTP:        &http.Client{Jar: jar},
		Headers:     http.Header{"Content-Type": []string{"application/json"}},
		Credentials: store,
	}
}

// Do sends the request and returns the raw response. Status checking and
// body decoding are left to the caller. Transport errors are returned as is.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any, header http.Header) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, reader)
	if err != nil {
		return nil, err
	}

	for key, values := range c.Headers {
		req.Header[key] = append([]string(nil), values...)
	}
	if token := c.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, values := range header {
		req.Header.Del(key)
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		log.Printf("[API] [ERROR] %s %s: %v", method, endpoint, err)
		return nil, err
	}

	if rotated := strings.TrimSpace(res.Header.Get(RotatedTokenHeader)); rotated != "" && c.Credentials != nil {
		if err := c.Credentials.Save(ctx, rotated); err != nil {
			log.Println("[API] [ERROR] rotated token not persisted:", err)
		} else {
			log.Printf("[API] [INFO] %s %s rotated token persisted", method, endpoint)
		}
	}

	return res, nil
}

func (c *Client) Get(ctx context.Context, endpoint string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, endpoint, nil, nil)
}

func (c *Client) Post(ctx context.Context, endpoint string, body any) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, endpoint, body, nil)
}

func (c *Client) Put(ctx context.Context, endpoint string, body any) (*http.Response, error) {
	return c.Do(ctx, http.MethodPut, endpoint, body, nil)
}

func (c *Client) Delete(ctx context.Context, endpoint string) (*http.Response, error) {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (c *Client) token(ctx context.Context) string {
	if c.Credentials == nil {
		return ""
	}
	token, err := c.Credentials.Token(ctx)
	if err != nil {
		log.Println("[API] [ERROR] token lookup failed:", err)
		return ""
	}
	return token
}
