package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"net/http"
	"strconv"
	"time"

	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/avast/retry-go/v4"
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/pkg/errors"
)

const retryDelay = 2 * time.Second

// ResponseError is a non-2xx answer of the search index.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("search index answered %d: %s", e.StatusCode, e.Body)
}

// ElasticIndexer stores documents in one Elasticsearch index, keyed by
// trackdb id. Requests that time out are retried.
type ElasticIndexer struct {
	client   *elasticsearch.Client
	index    string
	timeout  time.Duration
	maxRetry int
	delay    time.Duration
}

func NewElasticIndexer(addresses []string, index string, timeout time.Duration, maxRetry int) (*ElasticIndexer, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
		Transport: &http.Transport{ResponseHeaderTimeout: timeout},
	})
	if err != nil {
		return nil, errors.Wrap(err, "create elasticsearch client")
	}
	if maxRetry < 1 {
		maxRetry = 1
	}
	return &ElasticIndexer{client: client, index: index, timeout: timeout, maxRetry: maxRetry, delay: retryDelay}, nil
}

func (e *ElasticIndexer) Index(ctx context.Context, doc *Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "encode document %d", doc.TrackdbID)
	}
	return e.do(ctx, "index", func(ctx context.Context) (*esapi.Response, error) {
		return esapi.IndexRequest{
			Index:      e.index,
			DocumentID: strconv.FormatUint(uint64(doc.TrackdbID), 10),
			Body:       bytes.NewReader(body),
		}.Do(ctx, e.client)
	}, false)
}

// Delete is a no-op for a document that is not indexed.
func (e *ElasticIndexer) Delete(ctx context.Context, trackdbID uint) error {
	return e.do(ctx, "delete", func(ctx context.Context) (*esapi.Response, error) {
		return esapi.DeleteRequest{
			Index:      e.index,
			DocumentID: strconv.FormatUint(uint64(trackdbID), 10),
		}.Do(ctx, e.client)
	}, true)
}

func (e *ElasticIndexer) Ping(ctx context.Context) error {
	return e.do(ctx, "ping", func(ctx context.Context) (*esapi.Response, error) {
		return esapi.PingRequest{}.Do(ctx, e.client)
	}, false)
}

func (e *ElasticIndexer) do(ctx context.Context, op string, call func(context.Context) (*esapi.Response, error), allowNotFound bool) error {
	return retry.Do(func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()
		res, err := call(attemptCtx)
		if err != nil {
			return errors.Wrapf(err, "search %s", op)
		}
		defer res.Body.Close()
		if allowNotFound && res.StatusCode == http.StatusNotFound {
			return nil
		}
		if res.IsError() {
			b, _ := ioutil.ReadAll(io.LimitReader(res.Body, 2048))
			return errors.Wrapf(&ResponseError{StatusCode: res.StatusCode, Body: string(b)}, "search %s", op)
		}
		return nil
	},
		retry.Context(ctx),
		retry.Attempts(uint(e.maxRetry)),
		retry.Delay(e.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTimeout),
		retry.OnRetry(func(n uint, err error) {
			Logger.Log.Warnf("search %s timed out, retry %d: %v", op, n+1, err)
		}),
	)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
