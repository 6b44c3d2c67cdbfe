package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

// Version information for the lowc CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Banner renders Version with colored major, minor and patch segments.
// Versions that do not parse are returned unchanged.
func Banner() string {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return Version
	}
	out := versionMajorColor.Sprint(v.Major()) + "." +
		versionMinorColor.Sprint(v.Minor()) + "." +
		versionPatchColor.Sprint(v.Patch())
	if pre := v.Prerelease(); pre != "" {
		out += "-" + pre
	}
	if meta := v.Metadata(); meta != "" {
		out += "+" + meta
	}
	return out
}

// ErrProducer marks an AST file written by an incompatible producer.
var ErrProducer = errors.New("incompatible producer version")

// CheckProducer reports whether an AST file producer string ("name 1.2.3" or
// a bare version) is compatible with this build. Releases must share the
// major version; 0.x releases must also share the minor version. An empty
// producer or one without a version is accepted.
func CheckProducer(producer string) error {
	fields := strings.Fields(producer)
	if len(fields) == 0 {
		return nil
	}
	raw := fields[len(fields)-1]
	theirs, err := semver.NewVersion(raw)
	if err != nil {
		return nil
	}
	ours, err := semver.NewVersion(Version)
	if err != nil {
		return fmt.Errorf("version: bad build version %q: %w", Version, err)
	}
	if theirs.Major() != ours.Major() || (ours.Major() == 0 && theirs.Minor() != ours.Minor()) {
		return fmt.Errorf("%w: file written by %q, lowc is %s", ErrProducer, producer, ours)
	}
	return nil
}
