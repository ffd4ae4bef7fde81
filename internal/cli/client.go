package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) NewGame(ctx context.Context, playerName string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games", map[string]any{
		"player_name": playerName,
	}, &out)
	return out, err
}

func (c *Client) Snapshot(ctx context.Context, key string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(key), nil, &out)
	return out, err
}

func (c *Client) Advance(ctx context.Context, key string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(key)+"/advance", nil, &out)
	return out, err
}

func (c *Client) Buy(ctx context.Context, key string, instrumentID, amount int) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(key)+"/buy", map[string]any{
		"id":     instrumentID,
		"amount": amount,
	}, &out)
	return out, err
}

func (c *Client) Sell(ctx context.Context, key string, instrumentID, amount int) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(key)+"/sell", map[string]any{
		"id":     instrumentID,
		"amount": amount,
	}, &out)
	return out, err
}

func (c *Client) Bank(ctx context.Context, key, action string, amount int) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(key)+"/bank", map[string]any{
		"action": action,
		"amount": amount,
	}, &out)
	return out, err
}

func (c *Client) Hospital(ctx context.Context, key string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(key)+"/hospital", nil, &out)
	return out, err
}

func (c *Client) UpgradeTradingApp(ctx context.Context, key string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(key)+"/trading-app", nil, &out)
	return out, err
}

func (c *Client) Darkweb(ctx context.Context, key string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(key)+"/darkweb", nil, &out)
	return out, err
}

func (c *Client) EnableHacking(ctx context.Context, key string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games/"+url.PathEscape(key)+"/darkweb/hack", nil, &out)
	return out, err
}

func (c *Client) Chart(ctx context.Context, key string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/games/"+url.PathEscape(key)+"/chart", nil, &out)
	return out, err
}

func (c *Client) HighScores(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/scores", nil, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
