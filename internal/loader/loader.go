// Package loader reads definition sources for the CLI and server: local
// files, an optional fs.FS, stdin and, when enabled, HTTP URLs.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultMaxBytes bounds how much a single source may return.
const DefaultMaxBytes = 8 << 20

// Kind identifies how a location is resolved.
type Kind int

const (
	KindFile Kind = iota
	KindFS
	KindURL
	KindStdin
)

// Option customises a Loader.
type Option func(*Loader)

// Loader resolves a location to raw bytes.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	stdin     io.Reader
	maxBytes  int64
}

// WithFS resolves relative locations against files instead of the working
// directory.
func WithFS(files fs.FS) Option {
	return func(l *Loader) { l.fs = files }
}

// WithHTTPClient enables URL sources through client.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			clone := *client
			l.http = &clone
			l.allowHTTP = true
		}
	}
}

// WithHTTP enables URL sources with a default client.
func WithHTTP() Option {
	return func(l *Loader) {
		if l.http == nil {
			l.http = &http.Client{}
		}
		l.allowHTTP = true
	}
}

// WithTimeout bounds each HTTP request.
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) { l.timeout = timeout }
}

// WithStdin sets the reader used for the "-" location.
func WithStdin(r io.Reader) Option {
	return func(l *Loader) { l.stdin = r }
}

// WithMaxBytes overrides DefaultMaxBytes.
func WithMaxBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// New constructs a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{stdin: os.Stdin, maxBytes: DefaultMaxBytes}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// KindOf classifies location.
func (l *Loader) KindOf(location string) Kind {
	switch {
	case location == "-":
		return KindStdin
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return KindURL
	case l.fs != nil:
		return KindFS
	default:
		return KindFile
	}
}

// Load returns the bytes behind location.
func (l *Loader) Load(ctx context.Context, location string) ([]byte, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.New("loader: location is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	switch l.KindOf(location) {
	case KindStdin:
		data, err = l.readAll(l.stdin)
	case KindURL:
		if !l.allowHTTP {
			return nil, errors.New("loader: http support disabled")
		}
		data, err = l.loadHTTP(ctx, location)
	case KindFS:
		data, err = l.loadFS(location)
	default:
		data, err = l.loadFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", location, err)
	}
	return data, nil
}

func (l *Loader) loadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.readAll(f)
}

func (l *Loader) loadFS(name string) ([]byte, error) {
	f, err := l.fs.Open(strings.TrimPrefix(name, "./"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.readAll(f)
}

func (l *Loader) loadHTTP(ctx context.Context, url string) ([]byte, error) {
	reqCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.1")

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("unexpected status " + resp.Status)
	}
	return l.readAll(resp.Body)
}

func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, errors.New("reader is nil")
	}
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("source exceeds %d bytes", l.maxBytes)
	}
	return data, nil
}
