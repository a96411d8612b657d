package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo returns a ClientInfo describing this process and role
// name defaults to "ipvault"; tag is the process role such as "api" or "cli"
func BuildClientInfo(name, tag string) clickhouse.ClientInfo {
	if strings.TrimSpace(name) == "" {
		name = "ipvault"
	}
	host, _ := os.Hostname()

	type kv = struct{ Name, Version string }

	return clickhouse.ClientInfo{Products: []kv{
		{Name: strings.TrimSpace(name), Version: strings.TrimSpace(tag)},
		{Name: "go", Version: runtime.Version()},
		{Name: "commit", Version: vcsShortSHA()},
		{Name: "host", Version: strings.TrimSpace(host)},
	}}
}

func vcsShortSHA() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return "unknown"
}
