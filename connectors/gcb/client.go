package gcb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Package gcb downloads the published Global Carbon Budget flat files
// (CSV tables plus JSON metadata) into the local data directory. The
// release host is a plain public file server; no auth involved.

const DefaultBaseURL = "https://zenodo.org/records/7215364/files"

// Client is a thin wrapper over http.Client bound to a release base URL.
// Use New to construct it.

type Client struct {
	c       *http.Client
	baseURL string
}

func New(c *http.Client, baseURL string) *Client {
	if c == nil {
		c = &http.Client{Timeout: 5 * time.Minute}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{c: c, baseURL: baseURL}
}

// Fetch downloads one release file into dir, writing through a temp
// file so a failed transfer never leaves a truncated dataset behind.
func (gc *Client) Fetch(ctx context.Context, name, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	url := gc.baseURL + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := gc.c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	dest := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, name+".tmp*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("download %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// FetchAll downloads every named file, stopping at the first failure.
func (gc *Client) FetchAll(ctx context.Context, names []string, dir string) error {
	for _, name := range names {
		if err := gc.Fetch(ctx, name, dir); err != nil {
			return err
		}
	}
	return nil
}
