package command

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/bft-labs/coopwatch/pkg/log"
)

// HTTPDispatcher implements Dispatcher with plain HTTP POSTs.
type HTTPDispatcher struct {
	origin  string
	client  HTTPClient
	logger  log.Logger
	timeout time.Duration
	observe func(Result)
	wg      sync.WaitGroup
}

// Result is the outcome of one asynchronous dispatch.
type Result struct {
	Control  Control
	Status   int
	Err      error
	Duration time.Duration
}

// NewHTTPDispatcher creates a dispatcher that resolves relative targets
// against origin.
func NewHTTPDispatcher(origin string, client HTTPClient, logger log.Logger) *HTTPDispatcher {
	if client == nil {
		client = NewHTTPClient()
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &HTTPDispatcher{origin: origin, client: client, logger: logger}
}

// SetTimeout bounds each request. Zero means no timeout.
func (d *HTTPDispatcher) SetTimeout(timeout time.Duration) {
	d.timeout = timeout
}

// SetObserver registers fn to receive the result of every Dispatch. It must
// be called before the first Dispatch.
func (d *HTTPDispatcher) SetObserver(fn func(Result)) {
	d.observe = fn
}

// Dispatch sends the request on its own goroutine. The outcome is logged and
// otherwise dropped.
func (d *HTTPDispatcher) Dispatch(ctx context.Context, control Control) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		start := time.Now()
		status, err := d.DispatchSync(ctx, control)
		elapsed := time.Since(start)
		if d.observe != nil {
			d.observe(Result{Control: control, Status: status, Err: err, Duration: elapsed})
		}
		if err != nil {
			d.logger.Warn("command failed",
				log.String("control", control.Name),
				log.Err(err),
			)
			return
		}
		d.logger.Info("command sent",
			log.String("control", control.Name),
			log.Int("status", status),
			log.Duration("duration", elapsed),
		)
	}()
}

// DispatchSync sends the request and waits for the response headers. It
// returns the HTTP status code; non-2xx codes are reported as errors.
func (d *HTTPDispatcher) DispatchSync(ctx context.Context, control Control) (int, error) {
	target, err := ResolveTarget(d.origin, control.Target)
	if err != nil {
		return 0, fmt.Errorf("control %s: %w", control.Name, err)
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	// the front end answers with a redirect back to its index page
	if resp.StatusCode >= 400 {
		return resp.StatusCode, fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}

// NewHTTPClient returns a client that does not follow redirects, so a
// dispatch is exactly one request to the control's target.
func NewHTTPClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Wait blocks until every dispatched request has finished.
func (d *HTTPDispatcher) Wait() {
	d.wg.Wait()
}

var _ Dispatcher = (*HTTPDispatcher)(nil)
