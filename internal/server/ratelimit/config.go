package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // exact path, "/prefix/" or a pattern with "*" segments
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// key groups requests sharing a pattern into one bucket; other paths count separately
func (c *EndpointConfig) key(path string) string {
	if c.Path == "" {
		return path
	}
	return c.Path
}

// LoadConfig loads rate limiting configuration from environment variables:
// RATE_LIMIT_ENABLED, RATE_LIMIT_RPM, RATE_LIMIT_BURST, RATE_LIMIT_CLEANUP_INTERVAL,
// RATE_LIMIT_WHITELIST and RATE_LIMIT_BLACKLIST.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_RPM", 60),
		DefaultWindow:   time.Minute,
		DefaultBurst:    getEnvInt("RATE_LIMIT_BURST", 10),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// LLM calls
		{Path: "/resumes/*/enhance", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},

		// document decoding
		{Path: "/resumes/parse", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/resumes/parse-text", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// writes
		{Path: "/resumes/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/resumes/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
