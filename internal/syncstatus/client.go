package syncstatus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	erigonTimeout = 10 * time.Second
	prysmTimeout  = 120 * time.Second
)

// Status is a loosely-typed status document, printed as indented JSON.
// Transport failures are folded into the document under an "error" key and
// never propagate past this package: a dead endpoint must not stop the rest
// of the assessment.
type Status map[string]any

// Client polls the sync-status endpoints of both node clients.
type Client struct {
	http *resty.Client
}

// NewClient builds the shared HTTP client. Transient upstream hiccups are
// retried before being reported as errors.
func NewClient() *Client {
	return &Client{
		http: resty.New().
			SetRetryCount(2).
			SetRetryWaitTime(500 * time.Millisecond).
			SetRetryMaxWaitTime(2 * time.Second).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err == nil && r.StatusCode() >= 500 && r.StatusCode() <= 504
			}),
	}
}

// Erigon queries the execution client with an eth_syncing JSON-RPC call.
// A false/null result means the client reports itself fully synced;
// otherwise the syncing detail is returned with the noisy per-stage
// breakdown removed.
func (c *Client) Erigon(ctx context.Context, rpcURL string) Status {
	ctx, cancel := context.WithTimeout(ctx, erigonTimeout)
	defer cancel()

	payload := map[string]any{
		"jsonrpc": "2.0",
		"method":  "eth_syncing",
		"params":  []any{},
		"id":      1,
	}

	var body struct {
		Result json.RawMessage `json:"result"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetResult(&body).
		Post(rpcURL)
	if err != nil {
		return Status{"error": err.Error()}
	}
	if !resp.IsSuccess() {
		return Status{"error": fmt.Sprintf("unexpected status %s from %s", resp.Status(), rpcURL)}
	}

	result := string(body.Result)
	if result == "" || result == "null" || result == "false" {
		return Status{"synced": true, "details": "Erigon fully synced"}
	}

	var syncing map[string]any
	if err := json.Unmarshal(body.Result, &syncing); err != nil {
		return Status{"error": fmt.Sprintf("malformed eth_syncing result: %v", err)}
	}
	delete(syncing, "stages")

	return Status{"synced": false, "result": syncing}
}

// Prysm queries the consensus client's standard REST API for its syncing
// document and returns the data object as-is.
func (c *Client) Prysm(ctx context.Context, apiURL string) Status {
	ctx, cancel := context.WithTimeout(ctx, prysmTimeout)
	defer cancel()

	var body struct {
		Data map[string]any `json:"data"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get(apiURL + "/eth/v1/node/syncing")
	if err != nil {
		return Status{"error": err.Error()}
	}
	if !resp.IsSuccess() {
		return Status{"error": fmt.Sprintf("unexpected status %s from %s", resp.Status(), apiURL)}
	}
	if body.Data == nil {
		return Status{"error": "malformed syncing response: no data object"}
	}

	return Status(body.Data)
}
