package model

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/goerr/v2"
)

// LatestInfo is a snapshot of the newest published stable version and the
// release line branch it lives on. It is fetched fresh for every webhook
// invocation; nothing is cached across requests.
type LatestInfo struct {
	Version string // e.g. "12.0.6"
	Branch  string // e.g. "12-x-y"
}

// Major returns the major version of the latest release line.
func (l *LatestInfo) Major() (int, error) {
	return ParseMajor(l.Branch)
}

// BranchForVersion derives the release line branch for a published
// version, replacing the minor and patch components with "-x-y".
func BranchForVersion(version string) (string, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return "", goerr.Wrap(err, "parse version", goerr.V("version", version))
	}
	return fmt.Sprintf("%d-x-y", v.Major()), nil
}

// StableTagVersion parses a release tag into a semantic version, accepting
// only fully specified stable versions. The leading "v" is stripped and the
// parsed version must round-trip to the identical string, which rejects
// prerelease and build metadata suffixes such as "-nightly.20210506" or
// "-beta.3" as well as partial versions.
func StableTagVersion(tag string) (*semver.Version, error) {
	raw := strings.TrimPrefix(tag, "v")

	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "parse tag", goerr.V("tag", tag))
	}
	if v.Prerelease() != "" || v.Metadata() != "" || v.String() != raw {
		return nil, goerr.New("tag is not a stable version", goerr.V("tag", tag))
	}

	return v, nil
}
