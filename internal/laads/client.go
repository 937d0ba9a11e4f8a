package laads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ladsync/internal/logging"
	"ladsync/internal/services"
)

const defaultHTTPTimeout = 5 * time.Minute

// Config describes the LAADS client configuration.
type Config struct {
	BaseURL     string
	Token       string
	UserAgent   string
	RetryBudget int
	RetryDelay  time.Duration
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Client wraps the LAADS DAAC https interface: per-day directory listings
// and authenticated file downloads, with bounded retry on transient
// failures.
type Client struct {
	baseURL     *url.URL
	token       string
	userAgent   string
	retryBudget int
	retryDelay  time.Duration
	http        *http.Client
	logger      *slog.Logger
}

// New creates a Client from the supplied configuration. A missing token is a
// configuration error: the archive rejects anonymous requests, so failing
// here keeps the run from starting at all.
func New(cfg Config) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, services.Wrap(services.ErrConfiguration, "laads", "new client",
			"application token is required for accessing LAADS data", nil)
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, services.Wrap(services.ErrConfiguration, "laads", "new client", "base url is required", nil)
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "laads", "new client", "parse base url", err)
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = "ladsync/1.0"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	budget := cfg.RetryBudget
	if budget < 0 {
		budget = 0
	}
	return &Client{
		baseURL:     baseURL,
		token:       token,
		userAgent:   userAgent,
		retryBudget: budget,
		retryDelay:  cfg.RetryDelay,
		http:        httpClient,
		logger:      logging.NewComponentLogger(cfg.Logger, "laads"),
	}, nil
}

// Entry is one file in a remote day directory listing.
type Entry struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// ListDay fetches the file listing of one remote day directory. A 404 means
// the platform has no directory for that day and is reported as a NotFound
// classification without consuming the retry budget.
func (c *Client) ListDay(ctx context.Context, remotePath string) ([]Entry, error) {
	listingURL := c.absolute(strings.TrimSuffix(remotePath, "/") + ".json")

	var entries []Entry
	err := Retry(ctx, c.retryBudget, c.retryDelay, func(ctx context.Context) error {
		body, err := c.get(ctx, listingURL, "list day directory")
		if err != nil {
			return err
		}
		defer body.Close()

		entries = entries[:0]
		if err := json.NewDecoder(body).Decode(&entries); err != nil {
			return services.Wrap(services.ErrTransient, "laads", "list day directory",
				fmt.Sprintf("decode listing %s", listingURL), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Download retrieves one file from a remote day directory into destDir and
// returns the local path. No partial file survives a failed download.
func (c *Client) Download(ctx context.Context, remotePath, name, destDir string) (string, error) {
	fileURL := c.absolute(strings.TrimSuffix(remotePath, "/") + "/" + name)
	destination := filepath.Join(destDir, name)

	err := Retry(ctx, c.retryBudget, c.retryDelay, func(ctx context.Context) error {
		body, err := c.get(ctx, fileURL, "download")
		if err != nil {
			return err
		}
		defer body.Close()

		out, err := os.Create(destination)
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "laads", "download",
				fmt.Sprintf("create %s", destination), err)
		}
		if _, err := io.Copy(out, body); err != nil {
			_ = out.Close()
			_ = os.Remove(destination)
			return services.Wrap(services.ErrTransient, "laads", "download",
				fmt.Sprintf("stream %s", fileURL), err)
		}
		if err := out.Close(); err != nil {
			_ = os.Remove(destination)
			return services.Wrap(services.ErrTransient, "laads", "download",
				fmt.Sprintf("flush %s", destination), err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return destination, nil
}

func (c *Client) absolute(path string) string {
	ref := *c.baseURL
	ref.Path = strings.TrimSuffix(ref.Path, "/") + path
	return ref.String()
}

// get performs one authenticated request and classifies the response.
func (c *Client) get(ctx context.Context, rawURL, operation string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "laads", operation, "build request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, services.Wrap(services.ErrTransient, "laads", operation, rawURL, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp.Body, nil
	case resp.StatusCode == http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, services.Wrap(services.ErrNotFound, "laads", operation, rawURL, nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_ = resp.Body.Close()
		c.logger.Error("LAADS rejected the application token",
			logging.String("url", rawURL), logging.Int("status", resp.StatusCode))
		return nil, services.Wrap(services.ErrAuth, "laads", operation,
			fmt.Sprintf("%s returned status %d", rawURL, resp.StatusCode), nil)
	default:
		_ = resp.Body.Close()
		return nil, services.Wrap(services.ErrTransient, "laads", operation,
			fmt.Sprintf("%s returned status %d", rawURL, resp.StatusCode), nil)
	}
}
