package model

// Dispatch event types sent to the target website repository.
const (
	// EventDocChanges notifies the target that docs changed on the
	// current latest release line (or, on the release path and the
	// legacy single-event policy, that docs should be rebuilt for a SHA).
	EventDocChanges = "doc_changes"

	// EventDocChangesBranch notifies the target that docs changed on a
	// specific release line branch.
	EventDocChangesBranch = "doc_changes_branch"
)

// DispatchPayload is the client payload of a repository_dispatch event.
type DispatchPayload struct {
	SHA    string `json:"sha"`
	Branch string `json:"branch,omitempty"`
}

// DispatchIntent is a fully formed instruction to notify a downstream
// repository of a documentation change.
type DispatchIntent struct {
	Owner     string
	Repo      string
	EventType string
	Payload   DispatchPayload
}
