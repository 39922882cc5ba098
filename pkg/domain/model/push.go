package model

import "strings"

// CommitFiles holds the file paths touched by a single commit in a push.
type CommitFiles struct {
	Added    []string
	Modified []string
	Removed  []string
}

// PushInfo represents the subset of a GitHub push event the router needs.
type PushInfo struct {
	Ref        string // Full ref, e.g. "refs/heads/12-x-y"
	After      string // Head commit SHA of the push
	Repository string // "owner/name" of the pushed repository
	Commits    []CommitFiles
}

// TouchesDocs reports whether any path in any commit of the push,
// across added, modified and removed files, contains "docs".
func (p *PushInfo) TouchesDocs() bool {
	for _, c := range p.Commits {
		for _, paths := range [][]string{c.Added, c.Modified, c.Removed} {
			for _, path := range paths {
				if strings.Contains(path, "docs") {
					return true
				}
			}
		}
	}
	return false
}
