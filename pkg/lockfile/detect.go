package lockfile

import (
	"encoding/json"
	"regexp"
	"strings"
)

const yarnClassicHeader = "# yarn lockfile v1"

var (
	berryMetadataRE   = regexp.MustCompile(`(?m)^__metadata:`)
	pnpmLockVersionRE = regexp.MustCompile(`(?m)^lockfileVersion:\s*['"]?\d[\d.]*`)
)

// Detect identifies the format of lock-file text using cheap structural
// probes, checked in order:
//
//  1. JSON with both "lockfileVersion" and "packages": npm
//  2. the "# yarn lockfile v1" header: Yarn Classic
//  3. a top-level "__metadata:" key: Yarn Berry
//  4. a top-level "lockfileVersion:" with a numeric value: pnpm
//
// Berry is probed before pnpm because both are YAML and only Berry has
// __metadata. Detect never fails; unrecognized text yields FormatUnknown.
func Detect(text string) Format {
	if strings.HasPrefix(strings.TrimSpace(text), "{") && looksLikeNPM(text) {
		return FormatNPM
	}
	if strings.Contains(text, yarnClassicHeader) {
		return FormatYarnClassic
	}
	if berryMetadataRE.MatchString(text) {
		return FormatYarnBerry
	}
	if pnpmLockVersionRE.MatchString(text) {
		return FormatPNPM
	}
	return FormatUnknown
}

// looksLikeNPM swallows JSON errors; only ParseNPM reports them.
func looksLikeNPM(text string) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return false
	}
	_, hasVersion := probe["lockfileVersion"]
	return hasVersion && present(probe["packages"])
}

// present reports whether a raw JSON value is set to something other than
// null, false, zero or an empty string.
func present(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}
