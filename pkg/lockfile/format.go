package lockfile

import (
	"strings"

	errs "github.com/matzehuels/lockparse/pkg/errors"
)

// Format is a lock-file grammar. The set is closed: every Format other than
// FormatUnknown has exactly one parser.
type Format int

const (
	FormatUnknown Format = iota
	FormatNPM
	FormatYarnClassic
	FormatYarnBerry
	FormatPNPM

	numFormats
)

var formatNames = [...]string{
	FormatUnknown:     "unknown",
	FormatNPM:         "npm",
	FormatYarnClassic: "yarn-classic",
	FormatYarnBerry:   "yarn-berry",
	FormatPNPM:        "pnpm",
}

// Every Format needs a name; this fails to compile otherwise.
var _ = [1]struct{}{}[len(formatNames)-int(numFormats)]

func (f Format) String() string {
	if f < 0 || f >= numFormats {
		return formatNames[FormatUnknown]
	}
	return formatNames[f]
}

// Ecosystem returns the ecosystem that writes f, or "" for FormatUnknown.
func (f Format) Ecosystem() Ecosystem {
	switch f {
	case FormatNPM:
		return EcosystemNPM
	case FormatYarnClassic, FormatYarnBerry:
		return EcosystemYarn
	case FormatPNPM:
		return EcosystemPNPM
	}
	return ""
}

// Formats returns every parseable format in detection order.
func Formats() []Format {
	return []Format{FormatNPM, FormatYarnClassic, FormatYarnBerry, FormatPNPM}
}

var formatAliases = map[string]Format{
	"package-lock": FormatNPM,
	"yarn":         FormatYarnClassic,
	"yarn-v1":      FormatYarnClassic,
	"classic":      FormatYarnClassic,
	"berry":        FormatYarnBerry,
	"yarn-v2":      FormatYarnBerry,
	"yarn-v3":      FormatYarnBerry,
	"yarn-v4":      FormatYarnBerry,
}

// ParseFormat converts a user-supplied name ("npm", "yarn-classic", "berry",
// ...) to a Format.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range Formats() {
		if f.String() == name {
			return f, nil
		}
	}
	if f, ok := formatAliases[name]; ok {
		return f, nil
	}
	return FormatUnknown, errs.New(errs.ErrCodeInvalidFormat, "unknown lock-file format %q (available: npm, yarn-classic, yarn-berry, pnpm)", name)
}
