package ratelimit

import (
	"net/http"
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Exact paths win over "*" patterns, which win over "/prefix/" matches.
// Returns nil when nothing matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// health and metrics scrapes are unlimited
	if method == http.MethodGet && (path == "/health" || path == "/metrics") {
		return &EndpointConfig{}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && config.Path == path {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.Contains(config.Path, "*") && matchPattern(config.Path, path) {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}

// matchPattern compares path segments, with "*" matching any single non-empty segment
func matchPattern(pattern, path string) bool {
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] == "*" {
			if got[i] == "" {
				return false
			}
			continue
		}
		if want[i] != got[i] {
			return false
		}
	}
	return true
}
