package upstream

import (
	"net/http"

	"golang.org/x/time/rate"
)

// rateLimitedTransport waits on a shared limiter before every outgoing request,
// retries included
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func newRateLimitedTransport(transport http.RoundTripper, perSecond float64, burst int) *rateLimitedTransport {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimitedTransport{
		transport: transport,
		limiter:   rate.NewLimiter(limit, burst),
	}
}

func (rt *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := rt.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return rt.transport.RoundTrip(req)
}
