// Package handler contains the HTTP handlers for the webhook ingress and
// the management API.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// writeJSON writes data as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// parseQueryInt parses a query parameter as an integer.
// Returns defaultVal if the input is empty or invalid.
func parseQueryInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}

// secretConfigKey reports whether a config key holds a credential that must
// not be echoed back to API clients.
func secretConfigKey(key string) bool {
	lower := strings.ToLower(key)
	for _, marker := range []string{"secret", "token", "password", "apikey", "api_key"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// maskConfig returns the config with credential values replaced.
func maskConfig(cfg map[string]string) map[string]string {
	out := make(map[string]string, len(cfg))
	for k, v := range cfg {
		if secretConfigKey(k) && v != "" {
			out[k] = "[REDACTED]"
		} else {
			out[k] = v
		}
	}
	return out
}
