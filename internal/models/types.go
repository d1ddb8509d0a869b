package models

import "strings"

// ErrorResponse is the union of the error bodies the backend emits
type ErrorResponse struct {
	Message string `json:"message"`
	Mensaje string `json:"mensaje"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
	Path    string `json:"path"`
}

// Text returns the most specific human-readable message in the body
func (e ErrorResponse) Text() string {
	for _, m := range []string{e.Message, e.Mensaje, e.Error} {
		if m = strings.TrimSpace(m); m != "" {
			return m
		}
	}
	return ""
}

// HealthResponse is returned by the shell server's health endpoint
type HealthResponse struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	Version       string `json:"version"`
	Authenticated bool   `json:"authenticated"`
	Location      string `json:"location"`
}
