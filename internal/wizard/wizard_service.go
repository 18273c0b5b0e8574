// Package wizard drives the two-step report flow: issue-category selection,
// then a per-issue detail form submitted strictly in selection order. Form
// drafts are held per (session, issue) so moving between issues never loses
// entries; nothing durable is written until a detail form is submitted.
package wizard

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"fairvio/backend/internal/config"
	"fairvio/backend/internal/models"
	"fairvio/backend/internal/storage"
)

var (
	ErrNoSelection     = errors.New("wizard: at least one issue must be selected")
	ErrUnknownCategory = errors.New("wizard: unknown issue category")
	ErrSessionDone     = errors.New("wizard: all selected issues already submitted")
	ErrEvidenceTooBig  = errors.New("wizard: evidence file exceeds the size limit")
)

// ValidationError carries field-level messages for a rejected detail form.
// The keys are field names, the values translation keys for the message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("wizard: %d invalid fields", len(e.Fields))
}

// EvidenceUpload is one attached file as received from the form.
type EvidenceUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// SubmitResult describes where the wizard landed after a successful submit.
type SubmitResult struct {
	Report *models.IssueReport
	// Done means the last selected issue was just submitted and the client
	// should move to the confirmation screen.
	Done bool
	// NextCategory and NextDraft are set when more issues remain; NextDraft
	// carries previously-saved values for that issue, if any.
	NextCategory *Category
	NextDraft    *models.DraftForm
}

// Service implements the wizard state machine on top of Storage.
type Service struct {
	Storage storage.Storage
	log     zerolog.Logger
}

func NewService(s storage.Storage, log zerolog.Logger) *Service {
	return &Service{Storage: s, log: log}
}

// StartSession validates the selection step and opens a wizard session.
// Zero selected categories or an unknown id is rejected without creating
// anything, so the selection screen does not navigate.
func (s *Service) StartSession(userID string, categoryIDs []string, anonymous bool) (*models.WizardSession, error) {
	if len(categoryIDs) == 0 {
		return nil, ErrNoSelection
	}
	seen := make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		if _, ok := CategoryByID(id); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate %s", ErrUnknownCategory, id)
		}
		seen[id] = true
	}

	sess := &models.WizardSession{
		UserID:         userID,
		SelectedIssues: pq.StringArray(categoryIDs),
		Anonymous:      anonymous,
	}
	if err := s.Storage.SaveWizardSession(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Session loads an open wizard session.
func (s *Service) Session(id string) (*models.WizardSession, error) {
	return s.Storage.GetWizardSession(id)
}

// Claim attaches a signed-in user to a session begun anonymously, which is
// how the wizard resumes after the sign-in redirect.
func (s *Service) Claim(sess *models.WizardSession, userID string) error {
	if sess.UserID == userID {
		return nil
	}
	sess.UserID = userID
	return s.Storage.SaveWizardSession(sess)
}

// ActiveCategory returns the category currently being detailed.
func (s *Service) ActiveCategory(sess *models.WizardSession) (Category, error) {
	if sess.Done() {
		return Category{}, ErrSessionDone
	}
	cat, ok := CategoryByID(sess.ActiveIssueID())
	if !ok {
		return Category{}, ErrUnknownCategory
	}
	return cat, nil
}

// SaveDraft stores the current field values for the active issue without
// leaving the step. Saving an all-empty form clears the stored draft
// instead of persisting a blank one.
func (s *Service) SaveDraft(sess *models.WizardSession, draft models.DraftForm) error {
	if sess.Done() {
		return ErrSessionDone
	}
	if draft.Empty() {
		return s.Storage.DeleteDraft(sess.ID, sess.ActiveIssueID())
	}
	return s.Storage.SaveDraft(sess.ID, sess.ActiveIssueID(), draft, config.DraftTTL)
}

// Draft returns the saved draft for the given issue, or nil when none.
func (s *Service) Draft(sess *models.WizardSession, issueID string) (*models.DraftForm, error) {
	draft, err := s.Storage.GetDraft(sess.ID, issueID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return draft, err
}

// DiscardDraft drops the active issue's draft, the "leave without saving"
// resolution of the exit prompt.
func (s *Service) DiscardDraft(sess *models.WizardSession) error {
	if sess.Done() {
		return nil
	}
	return s.Storage.DeleteDraft(sess.ID, sess.ActiveIssueID())
}

// Abandon closes a wizard session without submitting the remaining issues.
func (s *Service) Abandon(sess *models.WizardSession) error {
	return s.Storage.DeleteWizardSession(sess.ID)
}

// ValidateDetails runs the client-side checks server-side: required
// when/where/who and a minimum-length what. A nil return means valid.
func ValidateDetails(d models.DraftForm) *ValidationError {
	fields := make(map[string]string)
	if d.When == "" {
		fields["when"] = "reportDetails.error.when"
	}
	if d.Where == "" {
		fields["where"] = "reportDetails.error.where"
	}
	if d.Who == "" {
		fields["who"] = "reportDetails.error.who"
	}
	if len(d.What) < config.MinWhatLength {
		fields["what"] = "reportDetails.error.what"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Submit persists the active issue's values as one IssueReport row plus any
// attached evidence, then advances to the next issue or finishes the
// session. Any persistence failure leaves the session where it was so the
// user can retry; validation failures happen before anything is written.
func (s *Service) Submit(sess *models.WizardSession, userID string, form models.DraftForm, files []EvidenceUpload) (*SubmitResult, error) {
	if sess.Done() {
		return nil, ErrSessionDone
	}
	if verr := ValidateDetails(form); verr != nil {
		return nil, verr
	}
	for _, f := range files {
		if len(f.Content) > config.MaxEvidenceSize {
			return nil, ErrEvidenceTooBig
		}
	}

	cat, err := s.ActiveCategory(sess)
	if err != nil {
		return nil, err
	}

	report := &models.IssueReport{
		UserID:              userID,
		IssueType:           cat.ID,
		IssueTitle:          cat.Title,
		IncidentDate:        form.When,
		IncidentLocation:    form.Where,
		InvolvedParties:     form.Who,
		Description:         form.What,
		EvidenceDescription: form.EvidenceDescription,
		Status:              models.StatusSubmitted,
	}
	if err := s.Storage.CreateReport(report); err != nil {
		return nil, err
	}

	for _, f := range files {
		ext := filepath.Ext(f.Filename)
		evidence := &models.EvidenceFile{
			ReportID:    report.ID,
			StoragePath: fmt.Sprintf("%s/%d%s", report.ID, time.Now().UnixMilli(), ext),
			Filename:    f.Filename,
			ContentType: f.ContentType,
			SizeBytes:   int64(len(f.Content)),
			Content:     f.Content,
		}
		if err := s.Storage.CreateEvidence(evidence); err != nil {
			return nil, err
		}
	}

	// The submitted issue's draft is spent.
	if err := s.Storage.DeleteDraft(sess.ID, cat.ID); err != nil {
		s.log.Warn().Err(err).Str("session", sess.ID).Msg("could not drop submitted draft")
	}

	sess.ActiveIndex++
	if sess.Done() {
		if err := s.Storage.DeleteWizardSession(sess.ID); err != nil {
			s.log.Warn().Err(err).Str("session", sess.ID).Msg("could not close wizard session")
		}
		s.log.Info().Str("report_id", report.ID).Str("issue", cat.ID).Msg("final issue submitted")
		return &SubmitResult{Report: report, Done: true}, nil
	}

	if err := s.Storage.SaveWizardSession(sess); err != nil {
		// The report row already exists, so rolling the cursor back means a
		// retry will insert a second row for this issue. Accepted: duplicate
		// reports are visible to caseworkers, a lost cursor is not.
		sess.ActiveIndex--
		return nil, err
	}

	next, err := s.ActiveCategory(sess)
	if err != nil {
		return nil, err
	}
	nextDraft, err := s.Draft(sess, next.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("session", sess.ID).Msg("could not load next draft")
		nextDraft = nil
	}

	return &SubmitResult{Report: report, NextCategory: &next, NextDraft: nextDraft}, nil
}
