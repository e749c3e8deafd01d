// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves the Claude API credential. The key comes from the
// environment or from a plain-text file in a secrets directory; its absence
// is not an error, it selects rule-based mode.
package secrets

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// EnvVar is the environment variable holding the API key.
	EnvVar = "ANTHROPIC_API_KEY"

	// KeyFile is the file name looked up inside the secrets directory.
	KeyFile = "anthropic-api-key"
)

// APIKey returns the Claude API key, preferring the environment variable
// over the key file in dir. Both absent yields the empty string.
func APIKey(dir string) string {
	if v := strings.TrimSpace(os.Getenv(EnvVar)); v != "" {
		return v
	}
	return fromFile(dir)
}

// fromFile reads and trims the key file. A missing or unreadable file is
// treated the same as an absent key.
func fromFile(dir string) string {
	if dir == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(dir, KeyFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
