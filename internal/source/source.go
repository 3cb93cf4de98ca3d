// Package source fetches the post resources from a local directory or from
// an http(s) base URL.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Resource names used by the charts.
const (
	Local      = "local.topo.json"
	Prices     = "neigh_prices.json"
	Coastlines = "coastlines.topo.json"
	Hotwords   = "hotwords.json"
	Survival   = "survival.json"
)

// Path is where the resources are published next to the post.
const Path = "/public/post_resources/room_prices_vancouver/"

var ErrNotFound = errors.New("source: resource not found")

// Fetcher returns the content of a named resource.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// New picks a Fetcher for loc: an http(s) URL or a directory.
func New(loc string, lg *log.Logger) (Fetcher, error) {
	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
		base, err := url.Parse(loc)
		if err != nil {
			return nil, err
		}
		return NewHTTP(base, nil, lg), nil
	}
	fi, err := os.Stat(loc)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("source: %s is not a directory", loc)
	}
	return Dir{Root: loc, Logger: lg}, nil
}

// Dir reads resources from a directory.
type Dir struct {
	Root   string
	Logger *log.Logger
}

func (d Dir) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("fetch %s: invalid name", name)
	}
	buf, err := os.ReadFile(filepath.Join(d.Root, filepath.FromSlash(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("fetch %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	if d.Logger != nil {
		d.Logger.Debug("resource read", "name", name, "bytes", len(buf))
	}
	return buf, nil
}

// HTTP requests resources relative to a base URL.
type HTTP struct {
	base   *url.URL
	client *http.Client
	logger *log.Logger
}

func NewHTTP(base *url.URL, client *http.Client, lg *log.Logger) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	b := *base
	if !strings.HasSuffix(b.Path, "/") {
		b.Path += "/"
	}
	return &HTTP{
		base:   &b,
		client: client,
		logger: lg,
	}
}

func (h *HTTP) Fetch(ctx context.Context, name string) ([]byte, error) {
	u := h.base.ResolveReference(&url.URL{Path: path.Clean(name)})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")
	res, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("fetch %s: %w", name, ErrNotFound)
	case res.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch %s: unexpected status %s", name, res.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, res.Body); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	if h.logger != nil {
		h.logger.Debug("resource fetched", "url", u.String(), "bytes", buf.Len())
	}
	return buf.Bytes(), nil
}

// FetchAll fetches every name concurrently and waits for all of them. The
// first failure cancels the others and is returned; results are in the order
// of names.
func FetchAll(ctx context.Context, f Fetcher, names ...string) ([][]byte, error) {
	out := make([][]byte, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			buf, err := f.Fetch(ctx, name)
			if err != nil {
				return err
			}
			out[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
