package github

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"

	"github.com/electron/electron-website-updater/pkg/domain/interfaces"
	"github.com/electron/electron-website-updater/pkg/domain/model"
)

type client struct {
	githubClient *github.Client
	upstreamRepo string
}

// NewClient creates a new GitHub client with App authentication. The
// installation transport caches its access token and refreshes it as
// needed, so the client is constructed once at startup and shared across
// requests.
func NewClient(appID, installationID int64, privateKey []byte, upstreamRepo string) (interfaces.GitHubClient, error) {
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	return &client{
		githubClient: github.NewClient(&http.Client{Transport: itr}),
		upstreamRepo: upstreamRepo,
	}, nil
}

// GetLatestInformation queries the upstream repository's releases for the
// newest published stable version and derives its release line branch.
// The result is fetched fresh on every call; nothing is cached between
// webhook invocations.
func (c *client) GetLatestInformation(ctx context.Context) (*model.LatestInfo, error) {
	owner, repo, err := splitFullName(c.upstreamRepo)
	if err != nil {
		return nil, err
	}

	// Nightlies and betas can fill whole pages, so keep paging until a
	// stable release shows up.
	opts := &github.ListOptions{PerPage: 100}
	var latest *semver.Version
	for {
		releases, resp, err := c.githubClient.Repositories.ListReleases(ctx, owner, repo, opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list releases", goerr.V("repo", c.upstreamRepo))
		}

		for _, release := range releases {
			if release.GetDraft() || release.GetPrerelease() {
				continue
			}

			v, err := model.StableTagVersion(release.GetTagName())
			if err != nil {
				continue
			}

			if latest == nil || v.GreaterThan(latest) {
				latest = v
			}
		}

		if latest != nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if latest == nil {
		return nil, goerr.New("no stable release found", goerr.V("repo", c.upstreamRepo))
	}

	branch, err := model.BranchForVersion(latest.String())
	if err != nil {
		return nil, err
	}

	return &model.LatestInfo{
		Version: latest.String(),
		Branch:  branch,
	}, nil
}

// GetSHAFromTag resolves a tag of the given repository to a commit SHA
func (c *client) GetSHAFromTag(ctx context.Context, repoFullName, tag string) (string, error) {
	owner, repo, err := splitFullName(repoFullName)
	if err != nil {
		return "", err
	}

	sha, _, err := c.githubClient.Repositories.GetCommitSHA1(ctx, owner, repo, tag, "")
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve tag",
			goerr.V("repo", repoFullName),
			goerr.V("tag", tag),
		)
	}

	return sha, nil
}

// SendRepositoryDispatch issues a repository_dispatch event to the given
// repository
func (c *client) SendRepositoryDispatch(ctx context.Context, owner, repo, eventType string, payload model.DispatchPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal dispatch payload")
	}
	clientPayload := json.RawMessage(raw)

	_, _, err = c.githubClient.Repositories.Dispatch(ctx, owner, repo, github.DispatchRequestOptions{
		EventType:     eventType,
		ClientPayload: &clientPayload,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to send repository dispatch",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("event_type", eventType),
		)
	}

	return nil
}

func splitFullName(fullName string) (string, string, error) {
	owner, repo, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", goerr.New("invalid repository full name", goerr.V("full_name", fullName))
	}
	return owner, repo, nil
}
