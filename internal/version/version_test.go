package version

import (
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	cases := []struct {
		info Info
		want string
	}{
		{Info{Version: "0.1.0-dev"}, "scenec 0.1.0-dev"},
		{Info{Version: "1.2.3", GitCommit: "abc123def456"}, "scenec 1.2.3 (abc123d)"},
		{Info{Version: "1.2.3", GitCommit: "abc", BuildDate: "2024-01-15"}, "scenec 1.2.3 (abc, 2024-01-15)"},
	}
	for _, tc := range cases {
		if got := tc.info.String(false); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestColoredKeepsDigits(t *testing.T) {
	got := Info{Version: "1.2.3-rc.1"}.String(true)
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-rc.1") {
		t.Fatalf("colored = %q", got)
	}
	if got := colorize("dev"); got != "dev" {
		t.Fatalf("non-semver must stay as is, got %q", got)
	}
}

func TestCurrentFollowsOverrides(t *testing.T) {
	orig := GitCommit
	t.Cleanup(func() { GitCommit = orig })
	GitCommit = "deadbeef"
	if Current().GitCommit != "deadbeef" {
		t.Fatal("Current must read the package variables")
	}
}
