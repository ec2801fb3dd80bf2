package engine

import (
	"strconv"
	"strings"

	"github.com/fulmenhq/semcast/pkg/semver"
)

// DefaultTagTemplate names tags "v1.2.3" unless configuration overrides it.
const DefaultTagTemplate = "v{version}"

// ExpandTag substitutes the tag template's placeholders against a version and
// repository name. Supported placeholders: {version}, {major}, {minor},
// {patch}, {repository_name}. Unknown placeholders pass through untouched so
// a template typo is visible in the produced name instead of vanishing.
// Creating the tag is the caller's job; the engine only computes the name.
func ExpandTag(template string, v semver.Version, repoName string) string {
	r := strings.NewReplacer(
		"{version}", v.String(),
		"{major}", strconv.Itoa(v.Major()),
		"{minor}", strconv.Itoa(v.Minor()),
		"{patch}", strconv.Itoa(v.Patch()),
		"{repository_name}", repoName,
	)
	return r.Replace(template)
}
