package marketplace

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/lootworks/floorsync/internal/config"
)

// APIError represents a non-2xx response from a marketplace API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("marketplace api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// newHTTPClient builds a resty client carrying the gateway's timeout and
// retry policy. MaxAttempts counts the first call, so the retry budget is
// MaxAttempts-1; wait min == max gives a fixed delay between attempts.
func newHTTPClient(cfg config.GatewayConfig, logger *slog.Logger) *resty.Client {
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.MaxAttempts - 1).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true // network error or timeout
			}
			return r.StatusCode() >= 500 || r.StatusCode() == http.StatusTooManyRequests
		}).
		SetLogger(restyLogger{logger})

	if cfg.APIKey != "" {
		c.SetAuthToken(cfg.APIKey)
	}

	return c
}

// checkStatus maps a non-2xx response to an APIError.
func checkStatus(resp *resty.Response) error {
	if resp.IsError() {
		return &APIError{
			StatusCode: resp.StatusCode(),
			Message:    http.StatusText(resp.StatusCode()),
			Body:       resp.Body(),
		}
	}
	return nil
}

// restyLogger adapts slog to resty's logger interface.
type restyLogger struct {
	l *slog.Logger
}

func (r restyLogger) Errorf(format string, v ...any) { r.l.Error(fmt.Sprintf(format, v...)) }
func (r restyLogger) Warnf(format string, v ...any)  { r.l.Warn(fmt.Sprintf(format, v...)) }
func (r restyLogger) Debugf(format string, v ...any) { r.l.Debug(fmt.Sprintf(format, v...)) }
