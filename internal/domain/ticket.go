// Package domain defines the core data model shared by the triage stages.
package domain

import "fmt"

// Ticket is an immutable issue-tracker ticket. It is owned by the caller and
// read-only to every stage.
type Ticket struct {
	Number   int      `json:"number"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Labels   []string `json:"labels"`
	Owner    string   `json:"owner"`
	RepoName string   `json:"repo_name"`
}

// HasLabel reports whether the ticket carries the given label.
func (t Ticket) HasLabel(name string) bool {
	for _, l := range t.Labels {
		if l == name {
			return true
		}
	}
	return false
}

// Ref returns the canonical "owner/repo#number" reference for the ticket.
func (t Ticket) Ref() string {
	return fmt.Sprintf("%s/%s#%d", t.Owner, t.RepoName, t.Number)
}
