package version

import "testing"

func TestInfo_Defaults(t *testing.T) {
	bi := Info("ipvault-api")
	if bi.Service != "ipvault-api" || bi.Version != "dev" || bi.Date != "unknown" {
		t.Fatalf("Info = %+v", bi)
	}
	if bi.Commit == "" {
		t.Fatalf("commit should never be empty")
	}
	if UserAgent() != "ipvault/dev" {
		t.Fatalf("UserAgent = %q", UserAgent())
	}
}
