package version

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

func TestVersion_DefaultIsSemver(t *testing.T) {
	if _, err := semver.NewVersion(Version); err != nil {
		t.Fatalf("Version %q is not semver: %v", Version, err)
	}
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origVersion, origGitCommit, origBuildDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origGitCommit, origBuildDate }()

	// как при сборке с -ldflags
	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	if Version != "1.2.3" || GitCommit != "abc123def456" || BuildDate != "2024-01-15T10:30:00Z" {
		t.Fatal("overrides not applied")
	}
}

func TestColored(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()
	color.NoColor = true

	tests := []string{"0.1.0", "1.2.3-rc.1+build.123", "0.1.0-dev", "weird"}
	for _, v := range tests {
		Version = v
		if got := Colored(); got != v {
			t.Errorf("Colored() without colour = %q, want %q", got, v)
		}
	}

	color.NoColor = false
	Version = "1.2.3-dev"
	got := Colored()
	if got == Version {
		t.Fatal("expected escape sequences with colour on")
	}
	if got[len(got)-4:] != "-dev" {
		t.Fatalf("suffix lost: %q", got)
	}
}
