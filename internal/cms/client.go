// Package cms fetches raw product records from the external Notion-style
// content database. The client only extracts values; it never applies
// defaults, that is the normalization layer's job. Records with missing or
// odd-shaped properties are extracted as absent fields, not errors.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dropkit/storefront/internal/catalog/normalize"
	"github.com/dropkit/storefront/pkg/logger"
)

const apiVersion = "2022-06-28"

// Config holds the connection settings for the content database.
type Config struct {
	BaseURL    string
	Token      string
	DatabaseID string
	Timeout    time.Duration
}

// Client queries the content database over HTTP.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a CMS client. A zero timeout defaults to 10 seconds.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchProducts pulls every record from the configured database, following
// pagination cursors. A transport or decode failure is returned as-is: the
// caller surfaces it once at the boundary, it never reaches the catalog core.
func (c *Client) FetchProducts(ctx context.Context) ([]normalize.RawProduct, error) {
	var records []normalize.RawProduct
	cursor := ""

	for {
		page, err := c.queryPage(ctx, cursor)
		if err != nil {
			return nil, err
		}
		for _, result := range page.Results {
			records = append(records, extractRecord(result))
		}
		if !page.HasMore || page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	logger.Logger.Info().
		Int("records", len(records)).
		Str("database_id", c.cfg.DatabaseID).
		Msg("Fetched product records from CMS")

	return records, nil
}

func (c *Client) queryPage(ctx context.Context, cursor string) (*queryResponse, error) {
	body := map[string]interface{}{"page_size": 100}
	if cursor != "" {
		body["start_cursor"] = cursor
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	url := fmt.Sprintf("%s/v1/databases/%s/query", c.cfg.BaseURL, c.cfg.DatabaseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build CMS request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach CMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CMS query returned status %d", resp.StatusCode)
	}

	var page queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode CMS response: %w", err)
	}
	return &page, nil
}
