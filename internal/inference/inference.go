// Package inference contains a client of hosted text generation endpoint.
package inference

//go:generate mockgen -destination=./mock/inference.go -package=mock -source=inference.go

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrEmptyResponse is returned when endpoint returned nothing to show.
var ErrEmptyResponse = errors.New("empty response")

var log = logrus.WithField("layer", "client").WithField("package", "inference")

// Generator generates a reply to text.
type Generator interface {
	Generate(ctx context.Context, text string) (string, error)
}

// Client ...
type Client struct {
	url   string
	token string
	c     *http.Client
}

// New creates new instance of Client.
func New(url, token string, c *http.Client) *Client {
	if c == nil {
		c = http.DefaultClient
	}

	return &Client{
		url:   url,
		token: token,
		c:     c,
	}
}

type request struct {
	Inputs string `json:"inputs"`
}

type output struct {
	GeneratedText string `json:"generated_text"`
}

// Generate implements Generator.
func (c *Client) Generate(ctx context.Context, text string) (string, error) {
	b, err := json.Marshal(request{Inputs: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode >= 300 {
		body, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 1024))
		log.WithField("status", resp.StatusCode).WithField("body", string(body)).Error("inference request failed")
		return "", fmt.Errorf("inference responded %d", resp.StatusCode)
	}

	var out []output
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(out) == 0 || strings.TrimSpace(out[0].GeneratedText) == "" {
		return "", ErrEmptyResponse
	}

	return out[0].GeneratedText, nil
}
