package logger

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"strings"
)

// MaskEndpoint keeps only the host of each comma-separated URL plus a short
// hash, so endpoints can be logged without their paths or query secrets
func MaskEndpoint(raw string) string {
	if raw == "" {
		return ""
	}

	parts := strings.Split(raw, ",")
	masked := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		host := "api-endpoint"
		if u, err := url.Parse(p); err == nil && u.Host != "" {
			host = u.Host
		}
		masked = append(masked, host+"#"+ShortHash(p))
	}
	return strings.Join(masked, ",")
}

// MaskSecret replaces a credential with a stable fingerprint
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	return "secret#" + ShortHash(secret)
}

// ShortHash returns the first 8 hex characters of the SHA-256 of s
func ShortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", sum[:4])
}
