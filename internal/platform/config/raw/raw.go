// Package raw reads env before logging exists; it must not import the logger
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf reads env vars under a prefix such as LOG_
type Conf struct{ prefix string }

// New returns an unprefixed Conf
func New() Conf { return Conf{} }

// Prefix nests p under the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) lookup(key string) string { return strings.TrimSpace(os.Getenv(c.prefix + key)) }

// Get returns the trimmed value or def when unset or blank
func (c Conf) Get(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// GetBool accepts strconv bools plus yes/no and on/off, def otherwise
func (c Conf) GetBool(key string, def bool) bool {
	switch v := strings.ToLower(c.lookup(key)); v {
	case "yes", "on":
		return true
	case "no", "off":
		return false
	default:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		return def
	}
}

// GetInt returns a non negative integer, def when unset or malformed
func (c Conf) GetInt(key string, def int) int {
	n, err := strconv.Atoi(c.lookup(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}
