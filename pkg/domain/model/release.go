package model

// ReleaseInfo represents information extracted from a release event
type ReleaseInfo struct {
	Action     string // Event action, e.g. "released"
	TagName    string // Release tag name, e.g. "v12.0.7"
	Draft      bool   // Whether the release is a draft
	Prerelease bool   // Whether the release is marked prerelease
	Repository string // Full name of the repository that published the release
}
