package usecase

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/electron/electron-website-updater/pkg/domain/model"
)

// RoutingPolicy selects which dispatch events a docs push produces.
type RoutingPolicy string

const (
	// PolicyDual emits a branch event for every docs push on a release
	// line, plus a current event when that line is the latest one.
	PolicyDual RoutingPolicy = "dual"

	// PolicyGuarded behaves like PolicyDual but additionally rejects
	// pushes on release lines newer than the latest published one.
	PolicyGuarded RoutingPolicy = "guarded"

	// PolicySingle is the legacy behavior: exactly one doc_changes event
	// with a SHA-only payload, emitted only for pushes on the latest
	// release line branch itself.
	PolicySingle RoutingPolicy = "single"
)

// ParseRoutingPolicy validates a policy name from configuration.
func ParseRoutingPolicy(s string) (RoutingPolicy, error) {
	switch p := RoutingPolicy(s); p {
	case PolicyDual, PolicyGuarded, PolicySingle:
		return p, nil
	default:
		return "", goerr.New("unknown routing policy", goerr.V("policy", s))
	}
}

// Route decides which repository_dispatch events a docs push on a release
// line produces. The push is assumed to have already passed the repository
// and docs filters; Route applies the ref-shaped gates of the selected
// policy and the latest-line classification, and returns zero, one or two
// intents targeting the given repository.
func Route(policy RoutingPolicy, push *model.PushInfo, latest *model.LatestInfo, targetOwner, targetRepo string) []model.DispatchIntent {
	switch policy {
	case PolicySingle:
		if push.Ref != "refs/heads/"+latest.Branch {
			return nil
		}
		return []model.DispatchIntent{{
			Owner:     targetOwner,
			Repo:      targetRepo,
			EventType: model.EventDocChanges,
			Payload:   model.DispatchPayload{SHA: push.After},
		}}

	default:
		// Non-canonical refs (main, feature branches, trop backports)
		// never dispatch, regardless of classification.
		pushMajor, err := model.ParseMajor(push.Ref)
		if err != nil {
			return nil
		}

		if policy == PolicyGuarded {
			latestMajor, err := latest.Major()
			if err != nil || pushMajor > latestMajor {
				return nil
			}
		}

		branch := model.ShortBranch(push.Ref)
		intents := []model.DispatchIntent{{
			Owner:     targetOwner,
			Repo:      targetRepo,
			EventType: model.EventDocChangesBranch,
			Payload:   model.DispatchPayload{SHA: push.After, Branch: branch},
		}}

		if model.IsLatest(latest.Branch, push.Ref) {
			intents = append(intents, model.DispatchIntent{
				Owner:     targetOwner,
				Repo:      targetRepo,
				EventType: model.EventDocChanges,
				Payload:   model.DispatchPayload{SHA: push.After, Branch: branch},
			})
		}

		return intents
	}
}
