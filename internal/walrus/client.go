package walrus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vedran77/devfolio/internal/domain"
)

var ErrUploadsDisabled = errors.New("walrus: no publisher configured")

// HTTPError is a non-2xx response from the publisher.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("walrus HTTP %d: %s", e.StatusCode, e.Message)
}

// Blob is the result of a store request.
type Blob struct {
	BlobID string `json:"blobId"`
	URL    string `json:"url"`
	Size   int64  `json:"size,omitempty"`
	// AlreadyCertified is set when the publisher already held this content.
	AlreadyCertified bool `json:"alreadyCertified,omitempty"`
}

type storeResponse struct {
	NewlyCreated *struct {
		BlobObject struct {
			BlobID string `json:"blobId"`
			Size   int64  `json:"size"`
		} `json:"blobObject"`
	} `json:"newlyCreated,omitempty"`
	AlreadyCertified *struct {
		BlobID string `json:"blobId"`
	} `json:"alreadyCertified,omitempty"`
}

// Client talks to a Walrus publisher (writes) and aggregator (reads).
type Client struct {
	publisherURL  string
	aggregatorURL string
	httpClient    *http.Client
}

func New(publisherURL, aggregatorURL string) *Client {
	return &Client{
		publisherURL:  publisherURL,
		aggregatorURL: aggregatorURL,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// BlobURL is the aggregator read URL of a blob.
func (c *Client) BlobURL(blobID string) string {
	return domain.BlobURL(c.aggregatorURL, blobID)
}

// Store uploads body and keeps it for the given number of epochs.
func (c *Client) Store(ctx context.Context, body io.Reader, epochs int) (*Blob, error) {
	if c.publisherURL == "" {
		return nil, ErrUploadsDisabled
	}

	u, err := url.Parse(c.publisherURL)
	if err != nil {
		return nil, fmt.Errorf("walrus.Store: parse publisher url: %w", err)
	}
	u = u.JoinPath("v1", "blobs")
	if epochs > 0 {
		q := u.Query()
		q.Set("epochs", strconv.Itoa(epochs))
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("walrus.Store: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("walrus.Store: do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, fmt.Errorf("walrus.Store: %w", &HTTPError{StatusCode: resp.StatusCode, Message: string(msg)})
	}

	var sr storeResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("walrus.Store: decode response: %w", err)
	}

	var blob Blob
	switch {
	case sr.NewlyCreated != nil && sr.NewlyCreated.BlobObject.BlobID != "":
		blob.BlobID = sr.NewlyCreated.BlobObject.BlobID
		blob.Size = sr.NewlyCreated.BlobObject.Size
	case sr.AlreadyCertified != nil && sr.AlreadyCertified.BlobID != "":
		blob.BlobID = sr.AlreadyCertified.BlobID
		blob.AlreadyCertified = true
	default:
		return nil, errors.New("walrus.Store: response carries no blob id")
	}
	blob.URL = c.BlobURL(blob.BlobID)
	return &blob, nil
}
