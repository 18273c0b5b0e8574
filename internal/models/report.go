package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportStatus tracks an issue report through the review pipeline. The web
// client only ever creates reports as "submitted" and displays the rest;
// transitions are applied by caseworkers through the admin CLI.
type ReportStatus string

const (
	StatusSubmitted     ReportStatus = "submitted"
	StatusInProgress    ReportStatus = "in_progress"
	StatusReviewed      ReportStatus = "reviewed"
	StatusDecisionMade  ReportStatus = "decision_made"
	StatusPendingReview ReportStatus = "pending_review"
)

// ValidStatuses lists every status a report may carry.
var ValidStatuses = []ReportStatus{
	StatusSubmitted, StatusInProgress, StatusReviewed, StatusDecisionMade, StatusPendingReview,
}

// IsValidStatus reports whether s is a known report status.
func IsValidStatus(s ReportStatus) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IssueReport is one submitted workplace issue. The incident fields are
// free-text on purpose: reporters describe dates and places in their own
// words and a caseworker interprets them.
type IssueReport struct {
	ID                  string       `gorm:"primaryKey" json:"id"`
	UserID              string       `gorm:"index;not null" json:"user_id"`
	IssueType           string       `gorm:"not null" json:"issue_type"`
	IssueTitle          string       `json:"issue_title"`
	IncidentDate        string       `json:"incident_date"`
	IncidentLocation    string       `json:"incident_location"`
	InvolvedParties     string       `json:"involved_parties"`
	Description         string       `gorm:"type:text;not null" json:"description"`
	EvidenceDescription string       `gorm:"type:text" json:"evidence_description,omitempty"`
	Status              ReportStatus `gorm:"type:text;not null" json:"status"`
	CreatedAt           time.Time    `json:"created_at"`
}

// BeforeCreate assigns a UUID and the initial status.
func (r *IssueReport) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = StatusSubmitted
	}
	return
}
