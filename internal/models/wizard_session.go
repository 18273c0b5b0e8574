package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // needed for pq.StringArray
	"gorm.io/gorm"
)

// WizardSession is one pass through the report wizard: the categories picked
// on the selection screen, in selection order, and the index of the issue
// currently being detailed. Persisting it lets the wizard survive the
// sign-in redirect of an unauthenticated submit.
type WizardSession struct {
	ID string `gorm:"primaryKey" json:"id"`
	// UserID stays empty until the visitor signs in.
	UserID         string         `gorm:"index" json:"user_id"`
	SelectedIssues pq.StringArray `gorm:"type:text[]" json:"selected_issues"`
	Anonymous      bool           `json:"anonymous"`
	ActiveIndex    int            `json:"active_index"`
	CreatedAt      time.Time      `json:"created_at"`
}

// BeforeCreate assigns a UUID when the ID is not set.
func (w *WizardSession) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return
}

// Done reports whether every selected issue has been submitted.
func (w *WizardSession) Done() bool {
	return w.ActiveIndex >= len(w.SelectedIssues)
}

// ActiveIssueID returns the category id currently being detailed.
func (w *WizardSession) ActiveIssueID() string {
	if w.Done() {
		return ""
	}
	return w.SelectedIssues[w.ActiveIndex]
}
