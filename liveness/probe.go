package liveness

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/Luismorlan/trackhubs/clients"
	"github.com/pkg/errors"
)

// ProbeResult is what opening a data file url gave. Code is the http status,
// 0 when the scheme has none. Reason is set whenever the file is not
// considered reachable.
type ProbeResult struct {
	Code   int
	Reason string
}

// OK is true for a 200 or for a successful probe without status code.
func (r ProbeResult) OK() bool {
	return r.Reason == "" && (r.Code == 0 || r.Code == http.StatusOK)
}

func (r ProbeResult) ErrorString() string {
	if r.Reason != "" {
		return r.Reason
	}
	if r.Code != 0 {
		return httpReason(r.Code)
	}
	return ""
}

func httpReason(code int) string {
	return fmt.Sprintf("%d: %s", code, http.StatusText(code))
}

// Prober opens one data file url.
type Prober interface {
	Probe(ctx context.Context, rawURL string) ProbeResult
}

// SchemeProber dispatches on the url scheme.
type SchemeProber struct {
	HTTP Prober
	FTP  Prober
}

func NewSchemeProber(timeout time.Duration) *SchemeProber {
	return &SchemeProber{
		HTTP: NewHTTPProber(timeout),
		FTP:  &FTPProber{timeout: timeout},
	}
}

func (p *SchemeProber) Probe(ctx context.Context, rawURL string) ProbeResult {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ProbeResult{Reason: err.Error()}
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return p.HTTP.Probe(ctx, rawURL)
	case "ftp":
		return p.FTP.Probe(ctx, rawURL)
	default:
		return ProbeResult{Reason: fmt.Sprintf("unknown url type: %s", rawURL)}
	}
}

// HTTPProber issues a GET and closes the body right away. Redirects are
// followed, no retry is attempted.
type HTTPProber struct {
	client *http.Client
}

func NewHTTPProber(timeout time.Duration) *HTTPProber {
	return &HTTPProber{client: &http.Client{Timeout: timeout}}
}

func (p *HTTPProber) Probe(ctx context.Context, rawURL string) ProbeResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ProbeResult{Reason: err.Error()}
	}
	res, err := p.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return ProbeResult{Reason: urlErr.Err.Error()}
		}
		return ProbeResult{Reason: err.Error()}
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return ProbeResult{Code: res.StatusCode, Reason: httpReason(res.StatusCode)}
	}
	return ProbeResult{Code: res.StatusCode}
}

// FTPProber logs in, changes to the file directory and starts a RETR of the
// file, which is aborted as soon as the server accepts it.
type FTPProber struct {
	timeout time.Duration
}

func (p *FTPProber) Probe(ctx context.Context, rawURL string) ProbeResult {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ProbeResult{Reason: err.Error()}
	}
	conn, err := clients.DialFtp(ctx, u, p.timeout)
	if err != nil {
		return ProbeResult{Reason: fmt.Sprintf("ftp error: %v", err)}
	}
	defer conn.Quit()

	if dir := path.Dir(u.Path); dir != "" && dir != "/" && dir != "." {
		if err := conn.ChangeDir(dir); err != nil {
			return ProbeResult{Reason: fmt.Sprintf("ftp error: %v", err)}
		}
	}
	resp, err := conn.Retr(path.Base(u.Path))
	if err != nil {
		return ProbeResult{Reason: fmt.Sprintf("ftp error: %v", err)}
	}
	// Closing mid-transfer makes most servers answer 426, which is expected.
	resp.Close()
	return ProbeResult{}
}
