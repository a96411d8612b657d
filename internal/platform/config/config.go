// Package config reads process settings from environment variables
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"ipvault/internal/platform/logger"
)

// Conf is a namespaced view of the environment
// config.New().Prefix("CORE_STORAGE_").MayString("PRIMARY_KIND", "ipfs") reads CORE_STORAGE_PRIMARY_KIND
type Conf struct{ prefix string }

// New returns the unprefixed root view
func New() Conf { return Conf{} }

// Prefix narrows the view; prefixes nest
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

// lookup returns the trimmed value and whether it is non-empty
func (c Conf) lookup(k string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(c.key(k)))
	return v, v != ""
}

// fallback logs an unparsable value; the caller returns its default
func (c Conf) fallback(k, raw, want string) {
	logger.Get().Warn().Str("key", c.key(k)).Str("value", raw).Msgf("not a valid %s; using default", want)
}

// MayString returns the value, or def when unset
func (c Conf) MayString(k, def string) string {
	if v, ok := c.lookup(k); ok {
		return v
	}
	return def
}

// MayInt returns the parsed value, or def when unset or not an integer
func (c Conf) MayInt(k string, def int) int {
	raw, ok := c.lookup(k)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.fallback(k, raw, "integer")
		return def
	}
	return n
}

// MayBool accepts the strconv.ParseBool spellings
func (c Conf) MayBool(k string, def bool) bool {
	raw, ok := c.lookup(k)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		c.fallback(k, raw, "bool")
		return def
	}
	return b
}

// MayDuration accepts time.ParseDuration syntax such as 250ms or 2m
func (c Conf) MayDuration(k string, def time.Duration) time.Duration {
	raw, ok := c.lookup(k)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		c.fallback(k, raw, "duration")
		return def
	}
	return d
}

// MayURL returns an absolute URL without its trailing slash so callers can append "/path"
func (c Conf) MayURL(k, def string) string {
	raw, ok := c.lookup(k)
	if !ok {
		return strings.TrimRight(def, "/")
	}
	if u, err := url.Parse(raw); err != nil || !u.IsAbs() {
		c.fallback(k, raw, "absolute URL")
		return strings.TrimRight(def, "/")
	}
	return strings.TrimRight(raw, "/")
}

// MayCSV splits a comma list, dropping blank items; def when nothing remains
func (c Conf) MayCSV(k string, def []string) []string {
	raw, ok := c.lookup(k)
	if !ok {
		return def
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
