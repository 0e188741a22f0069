package http

import "net/http"

// headerTransport stamps every outbound request with fixed headers
type headerTransport struct {
	userAgent string
	token     string
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	if t.userAgent != "" && reqCopy.Header.Get("User-Agent") == "" {
		reqCopy.Header.Set("User-Agent", t.userAgent)
	}
	// The practice backend is usually unauthenticated; a token is only
	// needed when it sits behind a proxy.
	if t.token != "" {
		reqCopy.Header.Set("Authorization", "Bearer "+t.token)
	}

	return t.transport.RoundTrip(reqCopy)
}

func WithClientHeaders(userAgent, token string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &headerTransport{
			userAgent: userAgent,
			token:     token,
			transport: rt,
		}
	})
}
