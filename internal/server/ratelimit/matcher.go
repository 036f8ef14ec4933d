package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited are the probe routes that are never limited
var unlimited = map[string]bool{"/health": true, "/metrics": true}

// MatchEndpoint returns the rule for a request, or nil when the default limit
// applies. An exact path wins; otherwise the longest rule path ending in "/"
// that prefixes the request path is used. Health and metrics reads get a rule
// with Limit 0, which the limiter treats as unlimited.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodGet && unlimited[path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var best *EndpointConfig
	for i := range configs {
		rule := &configs[i]
		if rule.Method != method {
			continue
		}
		if rule.Path == path {
			return rule
		}
		if !strings.HasSuffix(rule.Path, "/") || !strings.HasPrefix(path, rule.Path) {
			continue
		}
		if best == nil || len(rule.Path) > len(best.Path) {
			best = rule
		}
	}
	return best
}
