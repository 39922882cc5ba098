package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/electron/electron-website-updater/pkg/domain/interfaces"
	"github.com/electron/electron-website-updater/pkg/domain/model"
)

type webhookUseCase struct {
	github       interfaces.GitHubClient
	policy       RoutingPolicy
	upstreamRepo string
	targetOwner  string
	targetRepo   string
	timeout      time.Duration
}

// Option is a functional option for the webhook use case
type Option func(*webhookUseCase)

// WithPolicy sets the routing policy for docs pushes
func WithPolicy(policy RoutingPolicy) Option {
	return func(uc *webhookUseCase) {
		uc.policy = policy
	}
}

// WithUpstreamRepo sets the full name of the repository whose webhooks
// are accepted, e.g. "electron/electron"
func WithUpstreamRepo(fullName string) Option {
	return func(uc *webhookUseCase) {
		uc.upstreamRepo = fullName
	}
}

// WithTarget sets the repository that receives repository_dispatch events
func WithTarget(owner, repo string) Option {
	return func(uc *webhookUseCase) {
		uc.targetOwner = owner
		uc.targetRepo = repo
	}
}

// WithOutboundTimeout bounds each outbound GitHub API call
func WithOutboundTimeout(d time.Duration) Option {
	return func(uc *webhookUseCase) {
		uc.timeout = d
	}
}

// NewWebhook creates a new instance of WebhookUseCase
func NewWebhook(githubClient interfaces.GitHubClient, opts ...Option) *webhookUseCase {
	uc := &webhookUseCase{
		github:       githubClient,
		policy:       PolicyGuarded,
		upstreamRepo: "electron/electron",
		targetOwner:  "electron",
		targetRepo:   "website",
		timeout:      30 * time.Second,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ProcessEvent processes a webhook event. Business-level rejections (wrong
// repository, no docs change, non-canonical ref, ineligible release) are
// logged and swallowed so the webhook is always acknowledged; only payload
// decoding failures surface as errors.
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"type", event.Type,
		"action", event.Action,
		"repository", event.Repository,
		"sender", event.Sender,
	)

	switch event.Type {
	case model.EventTypePing:
		logger.Info("Received ping", "repository", event.Repository)
		return nil
	case model.EventTypePush:
		return uc.processPush(ctx, event)
	case model.EventTypeRelease:
		return uc.processRelease(ctx, event)
	default:
		logger.Warn("Unsupported event received", "type", event.Type)
		return nil
	}
}

// processPush filters a push, classifies its release line against the
// latest published version and sends the dispatch events the routing
// policy decides on.
func (uc *webhookUseCase) processPush(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	var pushEvent github.PushEvent
	if err := json.Unmarshal(event.RawPayload, &pushEvent); err != nil {
		return goerr.Wrap(err, "failed to unmarshal push event")
	}

	push := &model.PushInfo{
		Ref:        pushEvent.GetRef(),
		After:      pushEvent.GetAfter(),
		Repository: pushEvent.GetRepo().GetFullName(),
	}
	for _, c := range pushEvent.Commits {
		push.Commits = append(push.Commits, model.CommitFiles{
			Added:    c.Added,
			Modified: c.Modified,
			Removed:  c.Removed,
		})
	}

	if push.Repository != uc.upstreamRepo {
		logger.Info("Ignoring push from unexpected repository",
			"repository", push.Repository,
			"upstream", uc.upstreamRepo,
		)
		return nil
	}

	if !push.TouchesDocs() {
		logger.Info("Push does not touch docs, skipping",
			"ref", push.Ref,
			"sha", push.After,
		)
		return nil
	}

	latest, err := uc.getLatestInformation(ctx)
	if err != nil {
		logger.Error("Failed to fetch latest version information", "error", err)
		return nil
	}

	intents := Route(uc.policy, push, latest, uc.targetOwner, uc.targetRepo)
	if len(intents) == 0 {
		logger.Info("No dispatch for push",
			"ref", push.Ref,
			"latest_branch", latest.Branch,
			"policy", uc.policy,
		)
		return nil
	}

	uc.sendIntents(ctx, intents)
	return nil
}

// processRelease handles the standalone release path: a published stable
// release at or above the latest known version triggers a single
// doc_changes dispatch carrying the tag's commit SHA.
func (uc *webhookUseCase) processRelease(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	var releaseEvent github.ReleaseEvent
	if err := json.Unmarshal(event.RawPayload, &releaseEvent); err != nil {
		return goerr.Wrap(err, "failed to unmarshal release event")
	}

	info := &model.ReleaseInfo{
		Action:     releaseEvent.GetAction(),
		TagName:    releaseEvent.GetRelease().GetTagName(),
		Draft:      releaseEvent.GetRelease().GetDraft(),
		Prerelease: releaseEvent.GetRelease().GetPrerelease(),
		Repository: releaseEvent.GetRepo().GetFullName(),
	}

	if info.Action != "released" || info.Draft || info.Prerelease {
		logger.Info("Ignoring release event",
			"action", info.Action,
			"draft", info.Draft,
			"prerelease", info.Prerelease,
			"tag", info.TagName,
		)
		return nil
	}

	tagVersion, err := model.StableTagVersion(info.TagName)
	if err != nil {
		logger.Info("Release tag is not a stable version, skipping",
			"tag", info.TagName,
		)
		return nil
	}

	latest, err := uc.getLatestInformation(ctx)
	if err != nil {
		logger.Error("Failed to fetch latest version information", "error", err)
		return nil
	}

	latestVersion, err := semver.NewVersion(latest.Version)
	if err != nil {
		logger.Error("Latest published version is not valid semver",
			"version", latest.Version,
			"error", err,
		)
		return nil
	}

	if tagVersion.LessThan(latestVersion) {
		logger.Info("Release tag is below latest published version, skipping",
			"tag", info.TagName,
			"latest", latest.Version,
		)
		return nil
	}

	sha, err := uc.getSHAFromTag(ctx, info.Repository, info.TagName)
	if err != nil {
		logger.Error("Failed to resolve tag to commit SHA",
			"repository", info.Repository,
			"tag", info.TagName,
			"error", err,
		)
		return nil
	}

	uc.sendIntents(ctx, []model.DispatchIntent{{
		Owner:     uc.targetOwner,
		Repo:      uc.targetRepo,
		EventType: model.EventDocChanges,
		Payload:   model.DispatchPayload{SHA: sha},
	}})
	return nil
}

// sendIntents issues each dispatch exactly once, best effort. Send
// failures are logged and swallowed so the webhook still acknowledges.
func (uc *webhookUseCase) sendIntents(ctx context.Context, intents []model.DispatchIntent) {
	logger := ctxlog.From(ctx)

	for _, intent := range intents {
		sendCtx, cancel := context.WithTimeout(ctx, uc.timeout)
		err := uc.github.SendRepositoryDispatch(sendCtx, intent.Owner, intent.Repo, intent.EventType, intent.Payload)
		cancel()

		if err != nil {
			logger.Error("Failed to send repository dispatch",
				"owner", intent.Owner,
				"repo", intent.Repo,
				"event_type", intent.EventType,
				"sha", intent.Payload.SHA,
				"branch", intent.Payload.Branch,
				"error", err,
			)
			continue
		}

		logger.Info("Sent repository dispatch",
			"owner", intent.Owner,
			"repo", intent.Repo,
			"event_type", intent.EventType,
			"sha", intent.Payload.SHA,
			"branch", intent.Payload.Branch,
		)
	}
}

func (uc *webhookUseCase) getLatestInformation(ctx context.Context) (*model.LatestInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	return uc.github.GetLatestInformation(ctx)
}

func (uc *webhookUseCase) getSHAFromTag(ctx context.Context, repoFullName, tag string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	return uc.github.GetSHAFromTag(ctx, repoFullName, tag)
}
