package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/electron/electron-website-updater/pkg/domain/model"
	"github.com/electron/electron-website-updater/pkg/usecase"
)

// mockGitHubClient is a hand-rolled mock of interfaces.GitHubClient
type mockGitHubClient struct {
	latest      *model.LatestInfo
	latestErr   error
	sha         string
	shaErr      error
	dispatchErr error

	shaCalls   []string
	dispatches []dispatchCall
}

type dispatchCall struct {
	Owner     string
	Repo      string
	EventType string
	Payload   model.DispatchPayload
}

func (m *mockGitHubClient) GetLatestInformation(ctx context.Context) (*model.LatestInfo, error) {
	if m.latestErr != nil {
		return nil, m.latestErr
	}
	return m.latest, nil
}

func (m *mockGitHubClient) GetSHAFromTag(ctx context.Context, repoFullName, tag string) (string, error) {
	m.shaCalls = append(m.shaCalls, repoFullName+"@"+tag)
	if m.shaErr != nil {
		return "", m.shaErr
	}
	return m.sha, nil
}

func (m *mockGitHubClient) SendRepositoryDispatch(ctx context.Context, owner, repo, eventType string, payload model.DispatchPayload) error {
	m.dispatches = append(m.dispatches, dispatchCall{
		Owner:     owner,
		Repo:      repo,
		EventType: eventType,
		Payload:   payload,
	})
	return m.dispatchErr
}

func pushPayload(t *testing.T, ref, after, repo string, commits []map[string][]string) []byte {
	t.Helper()
	payload := map[string]any{
		"ref":        ref,
		"after":      after,
		"repository": map[string]any{"full_name": repo},
		"commits":    commits,
	}
	raw, err := json.Marshal(payload)
	gt.NoError(t, err)
	return raw
}

func docsCommits() []map[string][]string {
	return []map[string][]string{
		{"added": {}, "modified": {"docs/api/app.md"}, "removed": {}},
	}
}

func pushWebhookEvent(t *testing.T, ref, after, repo string, commits []map[string][]string) *model.WebhookEvent {
	t.Helper()
	return &model.WebhookEvent{
		ID:         "test-delivery",
		Type:       model.EventTypePush,
		Repository: repo,
		ReceivedAt: time.Now(),
		RawPayload: pushPayload(t, ref, after, repo, commits),
	}
}

func TestWebhookUseCase_Push_LatestLine(t *testing.T) {
	mock := &mockGitHubClient{
		latest: &model.LatestInfo{Version: "12.0.6", Branch: "12-x-y"},
	}
	uc := usecase.NewWebhook(mock,
		usecase.WithPolicy(usecase.PolicyGuarded),
		usecase.WithUpstreamRepo("electron/electron"),
		usecase.WithTarget("electron", "website"),
	)

	event := pushWebhookEvent(t, "refs/heads/12-x-y", "abc1234", "electron/electron", docsCommits())
	gt.NoError(t, uc.ProcessEvent(context.Background(), event))

	gt.Array(t, mock.dispatches).Length(2)
	gt.Value(t, mock.dispatches[0].EventType).Equal(model.EventDocChangesBranch)
	gt.Value(t, mock.dispatches[0].Payload).Equal(model.DispatchPayload{SHA: "abc1234", Branch: "12-x-y"})
	gt.Value(t, mock.dispatches[1].EventType).Equal(model.EventDocChanges)
	gt.Value(t, mock.dispatches[1].Payload).Equal(model.DispatchPayload{SHA: "abc1234", Branch: "12-x-y"})
}

func TestWebhookUseCase_Push_OlderLine(t *testing.T) {
	mock := &mockGitHubClient{
		latest: &model.LatestInfo{Version: "12.0.6", Branch: "12-x-y"},
	}
	uc := usecase.NewWebhook(mock)

	event := pushWebhookEvent(t, "refs/heads/1-x-y", "def5678", "electron/electron", docsCommits())
	gt.NoError(t, uc.ProcessEvent(context.Background(), event))

	gt.Array(t, mock.dispatches).Length(1)
	gt.Value(t, mock.dispatches[0].EventType).Equal(model.EventDocChangesBranch)
	gt.Value(t, mock.dispatches[0].Payload).Equal(model.DispatchPayload{SHA: "def5678", Branch: "1-x-y"})
}

func TestWebhookUseCase_Push_Skips(t *testing.T) {
	tests := []struct {
		name  string
		event func(t *testing.T) *model.WebhookEvent
	}{
		{
			name: "No docs change",
			event: func(t *testing.T) *model.WebhookEvent {
				return pushWebhookEvent(t, "refs/heads/12-x-y", "abc1234", "electron/electron",
					[]map[string][]string{
						{"modified": {"shell/browser/browser.cc"}},
					})
			},
		},
		{
			name: "Wrong repository",
			event: func(t *testing.T) *model.WebhookEvent {
				return pushWebhookEvent(t, "refs/heads/12-x-y", "abc1234", "fork/electron", docsCommits())
			},
		},
		{
			name: "Future unreleased line",
			event: func(t *testing.T) *model.WebhookEvent {
				return pushWebhookEvent(t, "refs/heads/13-x-y", "abc1234", "electron/electron", docsCommits())
			},
		},
		{
			name: "Backport branch",
			event: func(t *testing.T) *model.WebhookEvent {
				return pushWebhookEvent(t, "refs/heads/trop/12-x-y-bp-fix-docs-1234", "abc1234", "electron/electron", docsCommits())
			},
		},
		{
			name: "Main branch",
			event: func(t *testing.T) *model.WebhookEvent {
				return pushWebhookEvent(t, "refs/heads/main", "abc1234", "electron/electron", docsCommits())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockGitHubClient{
				latest: &model.LatestInfo{Version: "12.0.6", Branch: "12-x-y"},
			}
			uc := usecase.NewWebhook(mock)

			gt.NoError(t, uc.ProcessEvent(context.Background(), tt.event(t)))
			gt.Array(t, mock.dispatches).Length(0)
		})
	}
}

func TestWebhookUseCase_Push_LatestFetchFailure(t *testing.T) {
	mock := &mockGitHubClient{
		latestErr: errors.New("api unavailable"),
	}
	uc := usecase.NewWebhook(mock)

	event := pushWebhookEvent(t, "refs/heads/12-x-y", "abc1234", "electron/electron", docsCommits())
	gt.NoError(t, uc.ProcessEvent(context.Background(), event))
	gt.Array(t, mock.dispatches).Length(0)
}

func TestWebhookUseCase_Push_DispatchFailureIsSwallowed(t *testing.T) {
	mock := &mockGitHubClient{
		latest:      &model.LatestInfo{Version: "12.0.6", Branch: "12-x-y"},
		dispatchErr: errors.New("dispatch rejected"),
	}
	uc := usecase.NewWebhook(mock)

	event := pushWebhookEvent(t, "refs/heads/12-x-y", "abc1234", "electron/electron", docsCommits())
	gt.NoError(t, uc.ProcessEvent(context.Background(), event))

	// Both attempts are made even though each fails.
	gt.Array(t, mock.dispatches).Length(2)
}

func releaseWebhookEvent(t *testing.T, action, tag string, draft, prerelease bool) *model.WebhookEvent {
	t.Helper()
	payload := map[string]any{
		"action": action,
		"release": map[string]any{
			"tag_name":   tag,
			"draft":      draft,
			"prerelease": prerelease,
		},
		"repository": map[string]any{"full_name": "electron/electron"},
	}
	raw, err := json.Marshal(payload)
	gt.NoError(t, err)

	return &model.WebhookEvent{
		ID:         "test-delivery",
		Type:       model.EventTypeRelease,
		Action:     action,
		Repository: "electron/electron",
		ReceivedAt: time.Now(),
		RawPayload: raw,
	}
}

func TestWebhookUseCase_Release_Eligible(t *testing.T) {
	mock := &mockGitHubClient{
		latest: &model.LatestInfo{Version: "12.0.6", Branch: "12-x-y"},
		sha:    "fedcba9",
	}
	uc := usecase.NewWebhook(mock)

	event := releaseWebhookEvent(t, "released", "v12.0.7", false, false)
	gt.NoError(t, uc.ProcessEvent(context.Background(), event))

	gt.Array(t, mock.shaCalls).Length(1)
	gt.Value(t, mock.shaCalls[0]).Equal("electron/electron@v12.0.7")

	gt.Array(t, mock.dispatches).Length(1)
	gt.Value(t, mock.dispatches[0].EventType).Equal(model.EventDocChanges)
	gt.Value(t, mock.dispatches[0].Payload).Equal(model.DispatchPayload{SHA: "fedcba9"})
}

func TestWebhookUseCase_Release_Ineligible(t *testing.T) {
	tests := []struct {
		name       string
		action     string
		tag        string
		draft      bool
		prerelease bool
	}{
		{
			name:   "Action is not released",
			action: "published",
			tag:    "v12.0.7",
		},
		{
			name:   "Draft release",
			action: "released",
			tag:    "v12.0.7",
			draft:  true,
		},
		{
			name:       "Prerelease",
			action:     "released",
			tag:        "v12.0.7",
			prerelease: true,
		},
		{
			name:   "Nightly tag",
			action: "released",
			tag:    "v14.0.0-nightly.20210506",
		},
		{
			name:   "Tag below latest published version",
			action: "released",
			tag:    "v11.10.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockGitHubClient{
				latest: &model.LatestInfo{Version: "12.0.6", Branch: "12-x-y"},
				sha:    "fedcba9",
			}
			uc := usecase.NewWebhook(mock)

			event := releaseWebhookEvent(t, tt.action, tt.tag, tt.draft, tt.prerelease)
			gt.NoError(t, uc.ProcessEvent(context.Background(), event))
			gt.Array(t, mock.dispatches).Length(0)
		})
	}
}

func TestWebhookUseCase_PingAndUnknown(t *testing.T) {
	mock := &mockGitHubClient{}
	uc := usecase.NewWebhook(mock)

	ping := &model.WebhookEvent{
		ID:         "test-delivery",
		Type:       model.EventTypePing,
		Repository: "electron/electron",
		ReceivedAt: time.Now(),
		RawPayload: []byte(`{"zen":"Keep it logically awesome."}`),
	}
	gt.NoError(t, uc.ProcessEvent(context.Background(), ping))

	unknown := &model.WebhookEvent{
		ID:         "test-delivery",
		Type:       model.EventTypeUnknown,
		ReceivedAt: time.Now(),
		RawPayload: []byte(`{}`),
	}
	gt.NoError(t, uc.ProcessEvent(context.Background(), unknown))

	gt.Array(t, mock.dispatches).Length(0)
}
