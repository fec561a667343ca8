package hubparser

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/Luismorlan/trackhubs/clients"
	"github.com/pkg/errors"
)

// Fetcher returns the raw content of a descriptor file.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error)
}

// FetchError marks a url that cannot be fetched because of its shape rather
// than because of the remote.
type FetchError struct {
	URL        string
	InvalidURL bool
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RemoteFetcher reads http(s), ftp and file urls. Failures are not retried:
// an unreachable descriptor is reported to the submitter.
type RemoteFetcher struct {
	http    *clients.HttpClient
	timeout time.Duration
}

func NewRemoteFetcher(timeout time.Duration) *RemoteFetcher {
	return &RemoteFetcher{
		http:    clients.NewRetryableHttpClient(0, 0, 0, timeout),
		timeout: timeout,
	}
}

func (f *RemoteFetcher) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, InvalidURL: true, Err: err}
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return nil, &FetchError{URL: rawURL, InvalidURL: true, Err: errors.New("missing host")}
		}
		res, err := f.http.Get(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		return res.Body, nil
	case "ftp":
		if u.Host == "" {
			return nil, &FetchError{URL: rawURL, InvalidURL: true, Err: errors.New("missing host")}
		}
		return clients.FtpRetrieve(ctx, u, f.timeout)
	case "file":
		return os.Open(u.Path)
	default:
		return nil, &FetchError{URL: rawURL, InvalidURL: true, Err: fmt.Errorf("unknown url type: %q", u.Scheme)}
	}
}
