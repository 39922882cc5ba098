package interfaces

import (
	"context"

	"github.com/electron/electron-website-updater/pkg/domain/model"
)

// GitHubClient defines operations for interacting with GitHub API
type GitHubClient interface {
	// GetLatestInformation returns the newest published stable version of
	// the upstream repository and its release line branch
	GetLatestInformation(ctx context.Context) (*model.LatestInfo, error)

	// GetSHAFromTag resolves a tag of the given repository to a commit SHA
	GetSHAFromTag(ctx context.Context, repoFullName, tag string) (string, error)

	// SendRepositoryDispatch issues a repository_dispatch event to the
	// given repository
	SendRepositoryDispatch(ctx context.Context, owner, repo, eventType string, payload model.DispatchPayload) error
}
