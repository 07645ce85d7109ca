package backend

import "strings"

const (
	// DefaultPreferMarker picks the model family selected when the list loads
	DefaultPreferMarker = "llama"
	// DefaultModel is sent when no model list is available. It matches the
	// backend's own default.
	DefaultModel = "gemma3:1b"
)

// PreferredModel returns the first model containing marker, else the first
// model. It returns "" for an empty list.
func PreferredModel(models []string, marker string) string {
	if len(models) == 0 {
		return ""
	}
	if marker != "" {
		for _, m := range models {
			if strings.Contains(m, marker) {
				return m
			}
		}
	}
	return models[0]
}

// ContainsModel reports whether name is one of models
func ContainsModel(models []string, name string) bool {
	for _, m := range models {
		if m == name {
			return true
		}
	}
	return false
}
