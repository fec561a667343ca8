package clients

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	DefaultRetryMax     = 3
	DefaultRetryWaitMin = 1 * time.Second
	DefaultRetryWaitMax = 10 * time.Second
	maxLoggedBodyBytes  = 2048
)

// StatusError is returned when the remote answered with a status >= 300.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: non-2xx http code %d", e.URL, e.StatusCode)
}

// HttpClient is an outbound http client with retries on connection errors and
// 5xx responses.
type HttpClient struct {
	header http.Header
	client *retryablehttp.Client
}

func NewDefaultHttpClient() *HttpClient {
	return NewRetryableHttpClient(DefaultRetryMax, DefaultRetryWaitMin, DefaultRetryWaitMax, 0)
}

// NewRetryableHttpClient builds a client. A zero timeout leaves each attempt
// bounded only by the request context.
func NewRetryableHttpClient(retryMax int, retryWaitMin, retryWaitMax, timeout time.Duration) *HttpClient {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.RetryWaitMin = retryWaitMin
	client.RetryWaitMax = retryWaitMax
	client.HTTPClient.Timeout = timeout
	client.Logger = logrusLeveledLogger{}
	return &HttpClient{header: http.Header{}, client: client}
}

// SetHeader sets a header sent with every request.
func (c *HttpClient) SetHeader(key, value string) *HttpClient {
	c.header.Set(key, value)
	return c
}

// Get performs a GET. On success the caller owns the response body.
func (c *HttpClient) Get(ctx context.Context, uri string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", uri)
	}
	for k, v := range c.header {
		req.Header[k] = v
	}
	res, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", uri)
	}

	if IsNon200HttpResponse(res) {
		MaybeLogNon200HttpError(res)
		res.Body.Close()
		return nil, &StatusError{StatusCode: res.StatusCode, URL: uri}
	}

	return res, nil
}

// Log http response if the error code is not 2XX
func MaybeLogNon200HttpError(res *http.Response) {
	if IsNon200HttpResponse(res) {
		Logger.Log.Errorf("non-200 http code: %d", res.StatusCode)
		LogHttpResponseBody(res)
	}
}

func IsNon200HttpResponse(res *http.Response) bool {
	return res.StatusCode >= 300
}

func LogHttpResponseBody(res *http.Response) {
	body, err := ioutil.ReadAll(io.LimitReader(res.Body, maxLoggedBodyBytes))
	if err == nil {
		Logger.Log.Errorln("response body is: ", string(body))
	}
}

// logrusLeveledLogger routes retryablehttp logs to the service logger.
type logrusLeveledLogger struct{}

func (logrusLeveledLogger) Error(msg string, keysAndValues ...interface{}) {
	Logger.Log.WithField("kv", keysAndValues).Error(msg)
}

func (logrusLeveledLogger) Info(msg string, keysAndValues ...interface{}) {
	Logger.Log.WithField("kv", keysAndValues).Debug(msg)
}

func (logrusLeveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	Logger.Log.WithField("kv", keysAndValues).Debug(msg)
}

func (logrusLeveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	Logger.Log.WithField("kv", keysAndValues).Warn(msg)
}
