// Package backend is the REST client for the hosted listing collection:
// full ordered reads, server-assigned creates, deletes by id, and a
// long-poll watch that the live subscription is built on.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"eaglepark/models"
)

// WriteError is a failed backend mutation, surfaced uniformly for both
// the create and delete flows.
type WriteError struct {
	Op     string
	Status int
	Msg    string
}

func (e *WriteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: backend error %d: %s", e.Op, e.Status, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// TokenSource supplies the bearer token for write requests. The auth
// client implements it.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, tokens: tokens}
}

// document is one raw collection entry. Data is decoded per-field with
// defaults, never rejected as a batch.
type document struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

type snapshotResponse struct {
	Revision uint64     `json:"revision"`
	Documents []document `json:"documents"`
}

// ListListings fetches the full collection ordered by address ascending.
func (c *Client) ListListings(ctx context.Context) ([]models.Listing, error) {
	listings, _, err := c.fetch(ctx, c.baseURL+"/v1/listings")
	return listings, err
}

// Watch long-polls for a collection state newer than since, returning
// the full document set and its revision. Revisions are monotonic: a
// delayed response carries a lower revision and can be discarded by the
// caller. It returns with the unchanged revision on server timeout.
func (c *Client) Watch(ctx context.Context, since uint64) ([]models.Listing, uint64, error) {
	return c.fetch(ctx, c.baseURL+"/v1/listings/watch?since="+strconv.FormatUint(since, 10))
}

func (c *Client) fetch(ctx context.Context, url string) ([]models.Listing, uint64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, 0, fmt.Errorf("backend error %d: %s", resp.StatusCode, string(body))
	}

	var snapshot snapshotResponse
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, 0, err
	}

	listings := make([]models.Listing, 0, len(snapshot.Documents))
	for _, doc := range snapshot.Documents {
		listings = append(listings, models.DecodeListing(doc.ID, doc.Data))
	}

	return listings, snapshot.Revision, nil
}

// CreateListing writes a new document; the backend assigns the id and
// stamps postedBy from the session token.
func (c *Client) CreateListing(ctx context.Context, draft models.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return &WriteError{Op: "create listing", Msg: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/listings", bytes.NewReader(data))
	if err != nil {
		return &WriteError{Op: "create listing", Msg: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &WriteError{Op: "create listing", Msg: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return &WriteError{Op: "create listing", Status: resp.StatusCode, Msg: string(body)}
	}

	return nil
}

// DeleteListing removes a document by id.
func (c *Client) DeleteListing(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/v1/listings/"+id, nil)
	if err != nil {
		return &WriteError{Op: "delete listing", Msg: err.Error()}
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &WriteError{Op: "delete listing", Msg: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return &WriteError{Op: "delete listing", Status: resp.StatusCode, Msg: string(body)}
	}

	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
