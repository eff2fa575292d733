// Package fetch acquires source artwork bytes for an identifier.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrNotFound means the provider has no artwork for the identifier.
	ErrNotFound = errors.New("fetch: artwork not found")
	// ErrTransient covers network failures and server-side errors; a later
	// re-run of the batch may succeed.
	ErrTransient = errors.New("fetch: transient acquisition failure")
)

// Fetcher is the narrow seam between the pipeline and the artwork provider.
// Tests substitute in-memory implementations.
type Fetcher interface {
	Fetch(ctx context.Context, id int) ([]byte, error)
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		cli:  resty.New(),
		base: strings.TrimSuffix(baseURL, "/"),
		log:  logger,
	}
}

// Client fetches artwork over HTTP from baseURL/{id}.png.
type Client struct {
	cli  *resty.Client
	base string
	log  *zap.Logger
}

func (c *Client) Fetch(ctx context.Context, id int) ([]byte, error) {
	url := fmt.Sprintf("%s/%d.png", c.base, id)

	resp, err := c.cli.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, errors.Wrapf(ErrTransient, "get %s: %v", url, err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusOK:
	case code == http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, errors.Wrapf(ErrTransient, "get %s: status %d", url, code)
	}

	c.log.With(zap.Int("id", id), zap.Int("bytes", len(resp.Body()))).Debug("artwork fetched")
	return resp.Body(), nil
}
