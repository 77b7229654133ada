package thesportsdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
)

const maxResponseBytes = 6 << 20

const (
	TransportNetHTTP  = "nethttp"
	TransportFastHTTP = "fasthttp"
)

// Transport performs a single GET. It must honour ctx cancellation and deadline;
// retries and status handling live in Client.
type Transport interface {
	Get(ctx context.Context, url string) (status int, body []byte, err error)
}

// NewTransport returns the transport registered under name, defaulting to net/http.
func NewTransport(name string) (Transport, error) {
	switch name {
	case "", TransportNetHTTP:
		return NewNetHTTPTransport(nil), nil
	case TransportFastHTTP:
		return NewFastHTTPTransport(nil), nil
	default:
		return nil, fmt.Errorf("unknown upstream transport %q", name)
	}
}

type netHTTPTransport struct {
	client *http.Client
}

// NewNetHTTPTransport wraps client. The client must not set its own Timeout;
// per-attempt deadlines come from the request context.
func NewNetHTTPTransport(client *http.Client) Transport {
	if client == nil {
		client = &http.Client{}
	}
	return &netHTTPTransport{client: client}
}

func (t *netHTTPTransport) Get(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, raw, nil
}

type fastHTTPTransport struct {
	client *fasthttp.Client
}

func NewFastHTTPTransport(client *fasthttp.Client) Transport {
	if client == nil {
		client = &fasthttp.Client{
			MaxConnsPerHost:     32,
			MaxIdleConnDuration: time.Minute,
			MaxResponseBodySize: maxResponseBytes,
		}
	}
	return &fastHTTPTransport{client: client}
}

func (t *fastHTTPTransport) Get(ctx context.Context, url string) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = t.client.DoDeadline(req, resp, deadline)
	} else {
		err = t.client.Do(req, resp)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		return 0, nil, err
	}

	// resp is released on return, so the body must be copied.
	body := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), body, nil
}
