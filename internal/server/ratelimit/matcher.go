package ratelimit

import "strings"

// unlimited holds the health and scrape routes that are never limited
var unlimited = map[string]bool{
	"GET /health":  true,
	"GET /metrics": true,
}

// MatchEndpoint returns the config governing a request. An exact path wins,
// otherwise the longest configured prefix ending in "/" applies. Unlimited
// routes get a zero-limit config; nil means the defaults apply.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if unlimited[strings.ToUpper(method)+" "+path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if !strings.EqualFold(c.Method, method) {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			if best == nil || len(c.Path) > len(best.Path) {
				best = c
			}
		}
	}
	return best
}
