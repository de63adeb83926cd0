package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/schemagen/errors"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// devVersion is what an untagged build reports to version constraints
const devVersion = "0.0.0-dev"

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	if i.Version != "dev" {
		return fmt.Sprintf("schemagen %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
	}
	return fmt.Sprintf("schemagen dev (commit %s, built %s)", i.CommitHash, i.BuildTime)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// Check verifies that version satisfies a semver constraint such as ">= 0.4, < 1".
// Untagged "dev" builds always satisfy the constraint.
func Check(version, constraint string) error {
	if constraint == "" || version == "dev" || version == devVersion {
		return nil
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(err, "invalid schemagen version %s", version)
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.ConfigErrorf("invalid version constraint %q: %v", constraint, err)
	}

	if !c.Check(v) {
		return errors.WithHint(
			errors.ConfigErrorf("config requires schemagen %s, but running %s", constraint, version),
			"install a matching schemagen release or relax the `requires` constraint",
		)
	}
	return nil
}
