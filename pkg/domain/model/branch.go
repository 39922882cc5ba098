package model

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ErrUnparsableRef is returned when a ref does not name a release line.
var ErrUnparsableRef = goerr.New("ref does not match a release line")

// releaseLinePattern matches release line branches such as "12-x-y" or
// "refs/heads/12-x-y". The pattern is anchored at both ends so that
// backport branches like "trop/12-x-y-bp-..." and refs with trailing
// suffixes like "12-x-y-extra" never match.
var releaseLinePattern = regexp.MustCompile(`^(?:refs/heads/)?(\d+)-x-y$`)

// LineOrder is the relative order of a release line against the latest
// published one.
type LineOrder int

const (
	// LineOlder means the line predates the latest published line.
	LineOlder LineOrder = iota
	// LineLatestOrNewer means the line is the latest published line or a
	// newer, not yet published one. Equal majors count as latest.
	LineLatestOrNewer
)

// ParseMajor extracts the major version from a release line ref.
// It fails with ErrUnparsableRef for anything that is not a canonical
// "<N>-x-y" branch, including "main" and backport branches.
func ParseMajor(ref string) (int, error) {
	m := releaseLinePattern.FindStringSubmatch(ref)
	if m == nil {
		return 0, goerr.Wrap(ErrUnparsableRef, "parse major", goerr.V("ref", ref))
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, goerr.Wrap(err, "parse major", goerr.V("ref", ref))
	}

	return major, nil
}

// CompareLines orders currentMajor relative to latestMajor.
func CompareLines(latestMajor, currentMajor int) LineOrder {
	if currentMajor < latestMajor {
		return LineOlder
	}
	return LineLatestOrNewer
}

// IsLatest reports whether currentRef names the same or a newer release
// line than latestRef. A ref that fails to parse is never latest; the
// parse failure is swallowed so malformed refs can only ever take the
// plain branch dispatch path, never the "current" one.
func IsLatest(latestRef, currentRef string) bool {
	latestMajor, err := ParseMajor(latestRef)
	if err != nil {
		return false
	}

	currentMajor, err := ParseMajor(currentRef)
	if err != nil {
		return false
	}

	return CompareLines(latestMajor, currentMajor) == LineLatestOrNewer
}

// ShortBranch strips the "refs/heads/" prefix from a ref, if present.
func ShortBranch(ref string) string {
	return strings.TrimPrefix(ref, "refs/heads/")
}
