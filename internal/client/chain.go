// ABOUTME: Middleware chain for the outgoing HTTP transport
// ABOUTME: Composes request-transform and response-handler stages in declaration order

package client

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RoundTripFunc adapts a function to http.RoundTripper.
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware wraps a transport with additional behavior.
type Middleware func(http.RoundTripper) http.RoundTripper

// RequestStage transforms an outgoing request before dispatch. Returning an
// error aborts the request.
type RequestStage func(req *http.Request) error

// ResponseStage observes a completed round trip. It receives the transport
// result and returns the result to hand to outer stages.
type ResponseStage func(req *http.Request, resp *http.Response, err error) (*http.Response, error)

// Chain applies middleware to a transport in order.
// The first middleware in the list is the outermost (sees the request first
// and the response last).
// Example: Chain(base, auth, logging) applies as: auth(logging(base))
func Chain(rt http.RoundTripper, middlewares ...Middleware) http.RoundTripper {
	for i := len(middlewares) - 1; i >= 0; i-- {
		rt = middlewares[i](rt)
	}
	return rt
}

// OnRequest lifts a RequestStage into a Middleware. The stage works on a
// clone so the caller's request is never mutated.
func OnRequest(stage RequestStage) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(req *http.Request) (*http.Response, error) {
			req = req.Clone(req.Context())
			if err := stage(req); err != nil {
				return nil, err
			}
			return next.RoundTrip(req)
		})
	}
}

// OnResponse lifts a ResponseStage into a Middleware.
func OnResponse(stage ResponseStage) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			return stage(req, resp, err)
		})
	}
}

// JSONContent sets JSON content negotiation headers unless already present.
func JSONContent() Middleware {
	return OnRequest(func(req *http.Request) error {
		if req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", "application/json")
		}
		if req.Header.Get("Accept") == "" {
			req.Header.Set("Accept", "application/json")
		}
		return nil
	})
}

// RequestID tags each request with an X-Request-ID correlation header.
func RequestID() Middleware {
	return OnRequest(func(req *http.Request) error {
		if req.Header.Get("X-Request-ID") == "" {
			req.Header.Set("X-Request-ID", uuid.NewString())
		}
		return nil
	})
}

// LogRequests logs each round trip with method, path, status and latency.
// A nil logger resolves slog.Default() at call time.
func LogRequests(logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(req *http.Request) (*http.Response, error) {
			log := logger
			if log == nil {
				log = slog.Default()
			}

			start := time.Now()
			resp, err := next.RoundTrip(req)
			latency := time.Since(start).Milliseconds()

			if err != nil {
				log.Warn("Request failed",
					"request_id", req.Header.Get("X-Request-ID"),
					"method", req.Method,
					"path", req.URL.Path,
					"latency_ms", latency,
					"error", err,
				)
				return resp, err
			}

			log.Debug("Request completed",
				"request_id", req.Header.Get("X-Request-ID"),
				"method", req.Method,
				"path", req.URL.Path,
				"status", resp.StatusCode,
				"latency_ms", latency,
			)
			return resp, nil
		})
	}
}
