/*
Package rest is the HTTP client for the remote record-store service.

PURPOSE:
  Implements recordstore.Store against the hosted table API the HR product
  runs on. The wire protocol:

    POST  {base}/{baseID}/tables/{table}/records/list   body {limit, offset, filters}
    POST  {base}/{baseID}/tables/{table}/records        body {record: fields}
    PATCH {base}/{baseID}/tables/{table}/records/{id}   body {record: fields}

  Requests carry a Bearer token. List responses are {records, hasMore};
  record fields arrive loosely typed (linked references as single-element
  collections) and are decoded into recordstore.Value at this boundary.

ERROR HANDLING:
  Any non-2xx response is a transport error, wrapped with the table and
  filter that produced it. No retries here; callers own retry policy.
*/
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/warp/payroll-engine/recordstore"
)

const defaultPageLimit = 500

// Client implements recordstore.Store over HTTP.
type Client struct {
	baseURL string
	baseID  string
	token   string
	http    *http.Client
}

// New creates a client for one base of the remote record store.
func New(baseURL, baseID, token string) *Client {
	return &Client{
		baseURL: baseURL,
		baseID:  baseID,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type listRequest struct {
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset,omitempty"`
	Filters recordstore.Filter `json:"filters,omitempty"`
}

type listResponse struct {
	Records []wireRecord `json:"records"`
	HasMore bool         `json:"hasMore"`
}

type wireRecord struct {
	ID     string                       `json:"id"`
	Fields map[string]recordstore.Value `json:"fields"`
}

type recordEnvelope struct {
	Record map[string]recordstore.Value `json:"record"`
}

// List fetches one page of records.
func (c *Client) List(ctx context.Context, table string, filter recordstore.Filter, page recordstore.Page) (recordstore.ListResult, error) {
	limit := page.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	body := listRequest{Limit: limit, Offset: page.Offset, Filters: filter}

	var resp listResponse
	url := fmt.Sprintf("%s/%s/tables/%s/records/list", c.baseURL, c.baseID, table)
	if err := c.do(ctx, http.MethodPost, url, body, &resp); err != nil {
		return recordstore.ListResult{}, &recordstore.StoreError{Op: "list", Table: table, Filter: filter, Err: err}
	}

	records := make([]recordstore.Record, len(resp.Records))
	for i, wr := range resp.Records {
		records[i] = recordstore.Record{ID: wr.ID, Fields: wr.Fields}
	}
	return recordstore.ListResult{Records: records, HasMore: resp.HasMore}, nil
}

// Create inserts a record.
func (c *Client) Create(ctx context.Context, table string, fields map[string]recordstore.Value) (recordstore.Record, error) {
	var resp wireRecord
	url := fmt.Sprintf("%s/%s/tables/%s/records", c.baseURL, c.baseID, table)
	if err := c.do(ctx, http.MethodPost, url, recordEnvelope{Record: fields}, &resp); err != nil {
		return recordstore.Record{}, &recordstore.StoreError{Op: "create", Table: table, Err: err}
	}
	return recordstore.Record{ID: resp.ID, Fields: resp.Fields}, nil
}

// Update patches an existing record.
func (c *Client) Update(ctx context.Context, table string, id string, fields map[string]recordstore.Value) (recordstore.Record, error) {
	var resp wireRecord
	url := fmt.Sprintf("%s/%s/tables/%s/records/%s", c.baseURL, c.baseID, table, id)
	if err := c.do(ctx, http.MethodPatch, url, recordEnvelope{Record: fields}, &resp); err != nil {
		return recordstore.Record{}, &recordstore.StoreError{Op: "update", Table: table, Err: err}
	}
	if resp.ID == "" {
		resp.ID = id
	}
	return recordstore.Record{ID: resp.ID, Fields: resp.Fields}, nil
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status %d: %s", resp.StatusCode, detail)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
