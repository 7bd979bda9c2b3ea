// Package medibot forwards chat requests to the external MediBot service.
package medibot

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Proxy forwards requests mounted under a path prefix to the MediBot
// upstream, stripping the prefix. Upstream failures become 502 responses.
type Proxy struct {
	target *url.URL
	proxy  *httputil.ReverseProxy
	logger zerolog.Logger
}

func NewProxy(upstream string, logger zerolog.Logger) (*Proxy, error) {
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, err
	}

	p := &Proxy{target: target, logger: logger}
	rp := httputil.NewSingleHostReverseProxy(target)
	rp.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		p.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("medibot upstream unreachable")
		w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success":false,"message":"medibot service unavailable"}`))
	}
	p.proxy = rp
	return p, nil
}

// Handler returns an echo handler that strips prefix from the request path
// before forwarding. Mount it with a wildcard route under prefix.
func (p *Proxy) Handler(prefix string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		req.URL.Path = strings.TrimPrefix(req.URL.Path, prefix)
		if req.URL.Path == "" {
			req.URL.Path = "/"
		}
		req.Host = p.target.Host
		p.proxy.ServeHTTP(c.Response(), req)
		return nil
	}
}
