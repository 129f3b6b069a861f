// Package ner is a thin HTTP client for an external named entity
// recognition service. The parsing pipeline treats the service as optional,
// so callers degrade to pattern-only extraction on any error.
package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	commonhttp "talentflow-workers/internal/common/http"
	"talentflow-workers/internal/common/logger"
	"talentflow-workers/internal/parsing/fields"
)

var ErrRecognitionFailed = errors.New("NER_RECOGNITION_FAILED")

type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Client calls the recognition endpoint and maps tagged entities onto the
// fields the extractor can use.
type Client struct {
	config     *Config
	httpClient *commonhttp.Client
	logger     logger.Logger
}

var _ fields.EntityRecognizer = (*Client)(nil)

func NewClient(config *Config, log logger.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		config:     config,
		httpClient: commonhttp.NewClient(timeout),
		logger:     log,
	}
}

func (c *Client) Recognize(ctx context.Context, text string) (fields.Entities, error) {
	body, _ := json.Marshal(map[string]string{"text": text})

	url := strings.TrimRight(c.config.BaseURL, "/") + "/api/v1/entities"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fields.Entities{}, fmt.Errorf("%w: %v", ErrRecognitionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("entity recognition request failed", map[string]interface{}{
			"error": err.Error(),
		})
		return fields.Entities{}, fmt.Errorf("%w: %v", ErrRecognitionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("entity recognition returned non-OK status", map[string]interface{}{
			"status": resp.StatusCode,
		})
		return fields.Entities{}, fmt.Errorf("%w: status %d", ErrRecognitionFailed, resp.StatusCode)
	}

	var apiResponse struct {
		Entities []struct {
			Text  string `json:"text"`
			Label string `json:"label"`
		} `json:"entities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return fields.Entities{}, fmt.Errorf("%w: decode error: %v", ErrRecognitionFailed, err)
	}

	var out fields.Entities
	for _, ent := range apiResponse.Entities {
		switch strings.ToUpper(ent.Label) {
		case "PERSON", "PER":
			if out.Name == "" {
				out.Name = ent.Text
			}
		case "ORG", "ORGANIZATION":
			if out.Organization == "" {
				out.Organization = ent.Text
			}
		case "GPE", "LOC", "LOCATION":
			if out.Location == "" {
				out.Location = ent.Text
			}
		}
	}
	return out, nil
}
