package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited lists the probe routes that never consume tokens
var unlimited = map[string]bool{
	http.MethodGet + " /health":  true,
	http.MethodGet + " /metrics": true,
}

var unlimitedEndpoint = EndpointConfig{}

// MatchEndpoint returns the EndpointConfig that governs a request, or nil
// when the limiter's default applies. A config whose Path ends in "/" covers
// every path below it; the longest such prefix wins over shorter ones, and an
// exact path always wins over a prefix.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if unlimited[method+" "+path] {
		ep := unlimitedEndpoint
		return &ep
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if !strings.HasSuffix(c.Path, "/") || !strings.HasPrefix(path, c.Path) {
			continue
		}
		if best == nil || len(c.Path) > len(best.Path) {
			best = c
		}
	}
	return best
}
