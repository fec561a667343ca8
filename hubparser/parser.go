package hubparser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/pkg/errors"
)

const maxLineBytes = 1024 * 1024

const utf8BOM = "\ufeff"

// ErrNoResult means the descriptor could not be fetched or read at all, as
// opposed to a file that was read and held no stanza.
var ErrNoResult = errors.New("no result")

// NoResultError carries why a descriptor produced no result. It matches
// ErrNoResult with errors.Is.
type NoResultError struct {
	URL    string
	Reason string
	// Upstream is set when the remote could not be reached or answered with
	// an error, unset when the input itself is unusable.
	Upstream bool
}

func (e *NoResultError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.URL, e.Reason)
}

func (e *NoResultError) Is(target error) bool {
	return target == ErrNoResult
}

// Parser turns remote descriptor files into records.
type Parser struct {
	fetcher Fetcher
}

func NewParser(fetcher Fetcher) *Parser {
	return &Parser{fetcher: fetcher}
}

// ParseURL fetches rawURL and parses it. Any failure to obtain or read the
// content returns a *NoResultError.
func (p *Parser) ParseURL(ctx context.Context, rawURL string) ([]Record, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, &NoResultError{URL: rawURL, Reason: "empty url"}
	}
	body, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		Logger.Log.WithField("url", rawURL).Warnf("cannot fetch descriptor: %v", err)
		var fetchErr *FetchError
		upstream := !errors.As(err, &fetchErr) || !fetchErr.InvalidURL
		return nil, &NoResultError{URL: rawURL, Reason: err.Error(), Upstream: upstream}
	}
	defer body.Close()

	records, err := Parse(body, rawURL)
	if err != nil {
		return nil, &NoResultError{URL: rawURL, Reason: err.Error(), Upstream: true}
	}
	return records, nil
}

// Parse reads stanzas from r. A blank line ends a stanza, "#" lines are
// comments and every other line is "key value" split on the first space. A
// stanza is kept only if it has a hub, genome or track key. The last stanza
// is kept even without a trailing blank line.
func Parse(r io.Reader, sourceURL string) ([]Record, error) {
	records := []Record{}
	current := map[string]string{}

	flush := func() {
		if len(current) > 0 && hasStructuralKey(current) {
			records = append(records, Record{URL: sourceURL, Fields: current})
		}
		current = map[string]string{}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if first {
			line = strings.TrimPrefix(line, utf8BOM)
			first = false
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		// Subtracks are commonly indented under their parent.
		line = strings.TrimLeft(line, " \t")
		if strings.HasPrefix(line, "#") {
			continue
		}
		key, value := splitKeyValue(line)
		current[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read descriptor")
	}
	flush()
	return records, nil
}

func splitKeyValue(line string) (string, string) {
	idx := strings.Index(line, " ")
	if idx < 0 {
		return line, ""
	}
	return line[:idx], line[idx+1:]
}
