package common

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

const (
	OK                     int = 200
	NO_CONTENT             int = 204
	BAD_REQUEST            int = 400
	UNAUTHORIZED           int = 401
	FORBIDDEN              int = 403
	DATA_NOT_FOUND         int = 404
	METHOD_NOT_ALLOWED     int = 405
	UNSUPPORTED_MEDIA_TYPE int = 415
	RATE_LIMIT_EXCEEDED    int = 429
	INTERNAL_SERVER_ERROR  int = 500
	BAD_GATEWAY            int = 502
	SERVICE_UNAVAILABLE    int = 503
	GATEWAY_TIMEOUT        int = 504
)

var messages = map[int]string{
	OK:                     "OK",
	NO_CONTENT:             "No content",
	BAD_REQUEST:            "Bad request",
	UNAUTHORIZED:           "Unauthorized",
	FORBIDDEN:              "Forbidden",
	DATA_NOT_FOUND:         "Data not found",
	METHOD_NOT_ALLOWED:     "Method not allowed",
	UNSUPPORTED_MEDIA_TYPE: "Unsupported media type",
	RATE_LIMIT_EXCEEDED:    "Rate limit exceeded",
	INTERNAL_SERVER_ERROR:  "Internal server error",
	BAD_GATEWAY:            "Bad gateway",
	SERVICE_UNAVAILABLE:    "Service unavailable",
	GATEWAY_TIMEOUT:        "Gateway timeout",
}

// Responses bigger than this are not something any of our APIs sends
const maxResponseSize = 4 << 20

type Proxy struct {
	header      map[string]string
	client      *http.Client
	rateLimiter *RateLimiter
}

// Create a proxy that sends the provided header with every request,
// gives up on requests slower than the timeout and keeps the request
// rate inside the restrictions
func NewProxy(header map[string]string, timeout time.Duration, restrictions []Restriction) *Proxy {
	return &Proxy{header, &http.Client{Timeout: timeout}, NewRateLimiter(restrictions)}
}

// Make a GET request to the provided url and return the body of a 200 response.
// Statuses with a meaning for the callers are reported as
// ErrNotFound, ErrForbidden and ErrRateLimited
func (proxy *Proxy) Request(ctx context.Context, url string) ([]byte, error) {

	// Ask for permission to execute the request and wait if necessary
	if err := proxy.rateLimiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "waiting for the rate limiter")
	}

	// Create the request and add the header
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create request for url %s", url)
	}
	request.Header.Set("Accept", "application/json")
	for key, value := range proxy.header {
		request.Header.Set(key, value)
	}

	// Perform the request
	res, err := proxy.client.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "could not perform request")
	}
	defer res.Body.Close()

	// Check if the status of the request is understood
	if message, ok := messages[res.StatusCode]; ok {
		log.Debug().Msgf("%d %s", res.StatusCode, message)
	} else {
		log.Warn().Msgf("Status code of request (%d) is not understood", res.StatusCode)
	}

	switch res.StatusCode {
	case OK:
		// Read the response
		stream, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
		if err != nil {
			return nil, errors.Wrapf(err, "could not extract the response for url %s", url)
		}
		return stream, nil
	case NO_CONTENT, DATA_NOT_FOUND:
		return nil, errors.Wrapf(ErrNotFound, "status %d", res.StatusCode)
	case UNAUTHORIZED, FORBIDDEN:
		return nil, errors.Wrapf(ErrForbidden, "status %d", res.StatusCode)
	case RATE_LIMIT_EXCEEDED:
		proxy.rateLimiter.ReceivedRateLimit(retryAfter(res.Header.Get("Retry-After")))
		return nil, errors.Wrapf(ErrRateLimited, "status %d", res.StatusCode)
	default:
		return nil, errors.Newf("unexpected status %d", res.StatusCode)
	}
}

// Retry-After in seconds; the HTTP date form is not used by our APIs
func retryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
