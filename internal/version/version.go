// Package version parses free-form version/build strings as they show
// up in CI artifact names and release metadata.
package version

import (
	"fmt"
	"regexp"
	"strings"
)

// Info is the canonical (version, build number) pair produced by Parse.
// BuildNumber is empty when the input carried no build component.
type Info struct {
	Version     string
	BuildNumber string
}

// Patterns tried in priority order; first match wins. X, Y, Z are
// digits only, the build component is free-form up to the delimiter.
var (
	plusForm  = regexp.MustCompile(`^(\d+\.\d+\.\d+)\+(.+)$`)
	parenForm = regexp.MustCompile(`^(\d+\.\d+\.\d+)\((.+)\)$`)
	bareForm  = regexp.MustCompile(`^(\d+\.\d+\.\d+)$`)
)

// Parse normalizes a raw version string. A leading "v" or "V" is
// stripped before matching. Inputs that match none of the supported
// forms degrade to {Version: <normalized input>} with no build number;
// Parse never fails.
func Parse(raw string) Info {
	s := strings.TrimSpace(raw)
	if len(s) > 0 && (s[0] == 'v' || s[0] == 'V') {
		s = s[1:]
	}

	if m := plusForm.FindStringSubmatch(s); m != nil {
		return Info{Version: m[1], BuildNumber: m[2]}
	}
	if m := parenForm.FindStringSubmatch(s); m != nil {
		return Info{Version: m[1], BuildNumber: m[2]}
	}
	if m := bareForm.FindStringSubmatch(s); m != nil {
		return Info{Version: m[1]}
	}

	return Info{Version: s}
}

// Format renders the pair in the "version+build" form, or the bare
// version when there is no build number. Parse(Format(i)) reproduces i
// for every supported form.
func Format(version, buildNumber string) string {
	if buildNumber == "" {
		return version
	}
	return fmt.Sprintf("%s+%s", version, buildNumber)
}

// String implements fmt.Stringer.
func (i Info) String() string {
	return Format(i.Version, i.BuildNumber)
}
