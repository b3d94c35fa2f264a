package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-party collaborator errors
var (
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrCircuitBreakerOpen = errors.New("circuit breaker open")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
)

var ErrConfigMissing = errors.New("configuration missing")

func NewServiceUnavailableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnavailable,
		Details:    fmt.Sprintf("%s is unavailable", service),
		Cause:      cause,
	}
}

func NewCircuitBreakerOpenError(service string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrCircuitBreakerOpen,
		Details:    fmt.Sprintf("%s is temporarily disabled after repeated failures", service),
	}
}

func NewRateLimitError(endpoint string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrRateLimitExceeded,
		Details:    fmt.Sprintf("Too many requests to %s", endpoint),
		Field:      "rate_limit",
	}
}

func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Configuration error for %s", configName),
		Cause:      cause,
	}
}

func IsServiceUnavailableError(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) || errors.Is(err, ErrCircuitBreakerOpen)
}
