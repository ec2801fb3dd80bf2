// Package semver implements the version value model shared by the root
// version record and every manifest: parse, compare, bump.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fulmenhq/semcast/pkg/errs"
)

// semverPattern accepts the bare MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD] form.
// No 'v' prefix: the root record and manifests store the plain triple; tag
// templates add a prefix back when asked to.
var semverPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:-([0-9A-Za-z.-]+))?(?:\+([0-9A-Za-z.-]+))?$`)

// Kind selects which component a bump increments.
type Kind string

const (
	KindMajor Kind = "major"
	KindMinor Kind = "minor"
	KindPatch Kind = "patch"
)

// ParseKind converts a CLI token into a bump kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major":
		return KindMajor, nil
	case "minor":
		return KindMinor, nil
	case "patch":
		return KindPatch, nil
	default:
		return "", fmt.Errorf("unknown bump kind %q (want major, minor, or patch)", s)
	}
}

// Version is an immutable semantic version value.
type Version struct {
	major int
	minor int
	patch int
	pre   string
	build string
}

// Parse reads a version string. Surrounding whitespace is trimmed; everything
// else is strict: all three numeric components must be present, leading zeros
// are rejected, and a 'v' prefix is rejected.
func Parse(input string) (Version, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Version{}, errs.New(errs.ErrInvalidVersionFormat, "empty version")
	}

	matches := semverPattern.FindStringSubmatch(trimmed)
	if len(matches) == 0 {
		return Version{}, errs.Newf(errs.ErrInvalidVersionFormat, "invalid version %q (want MAJOR.MINOR.PATCH)", trimmed)
	}

	var nums [3]int
	for i, name := range []string{"major", "minor", "patch"} {
		seg := matches[i+1]
		if len(seg) > 1 && strings.HasPrefix(seg, "0") {
			return Version{}, errs.Newf(errs.ErrInvalidVersionFormat, "invalid %s segment in %q: leading zeros not allowed", name, trimmed)
		}
		n, err := strconv.Atoi(seg)
		if err != nil {
			return Version{}, errs.Wrapf(err, errs.ErrInvalidVersionFormat, "invalid %s segment in %q", name, trimmed)
		}
		nums[i] = n
	}

	v := Version{major: nums[0], minor: nums[1], patch: nums[2]}

	if pre := matches[4]; pre != "" {
		if err := checkIdentifiers(pre); err != nil {
			return Version{}, errs.Wrapf(err, errs.ErrInvalidVersionFormat, "invalid prerelease in %q", trimmed)
		}
		v.pre = pre
	}
	if build := matches[5]; build != "" {
		if err := checkIdentifiers(build); err != nil {
			return Version{}, errs.Wrapf(err, errs.ErrInvalidVersionFormat, "invalid build metadata in %q", trimmed)
		}
		v.build = build
	}

	return v, nil
}

// MustParse is Parse for trusted literals; it panics on error.
func MustParse(input string) Version {
	v, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return v
}

// checkIdentifiers rejects empty dot-separated segments ("1.2.3-a..b").
func checkIdentifiers(s string) error {
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return fmt.Errorf("empty identifier segment")
		}
	}
	return nil
}

func (v Version) Major() int { return v.major }

func (v Version) Minor() int { return v.minor }

func (v Version) Patch() int { return v.patch }

func (v Version) Prerelease() string { return v.pre }

func (v Version) Build() string { return v.build }

func (v Version) IsPrerelease() bool { return v.pre != "" }

// String renders the canonical text form. Parse(v.String()) round-trips.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
	if v.pre != "" {
		s += "-" + v.pre
	}
	if v.build != "" {
		s += "+" + v.build
	}
	return s
}

// Bump returns a new version with the requested component incremented. A
// minor bump zeroes patch; a major bump zeroes minor and patch. Prerelease
// and build metadata are dropped on every bump.
func (v Version) Bump(kind Kind) Version {
	switch kind {
	case KindMajor:
		return Version{major: v.major + 1}
	case KindMinor:
		return Version{major: v.major, minor: v.minor + 1}
	default:
		return Version{major: v.major, minor: v.minor, patch: v.patch + 1}
	}
}

// Compare orders two versions: numeric components first, then a prerelease
// version sorts strictly before the same triple without one. Two prerelease
// suffixes compare as plain strings. That last rule is a deliberate
// simplification (full SemVer compares dot-separated identifiers field-wise,
// numeric before alphanumeric); callers synchronizing equal versions never
// hit the difference, but ordering of e.g. "-2" vs "-10" does not follow
// SemVer 2.0.0 precedence. Build metadata is ignored.
func Compare(a, b Version) int {
	if a.major != b.major {
		return sign(a.major - b.major)
	}
	if a.minor != b.minor {
		return sign(a.minor - b.minor)
	}
	if a.patch != b.patch {
		return sign(a.patch - b.patch)
	}
	if a.pre == b.pre {
		return 0
	}
	if a.pre == "" {
		return 1
	}
	if b.pre == "" {
		return -1
	}
	return strings.Compare(a.pre, b.pre)
}

// Equal reports whether two versions are the same, ignoring build metadata.
func Equal(a, b Version) bool {
	return Compare(a, b) == 0
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
