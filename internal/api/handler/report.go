package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"fairvio/backend/internal/auth"
	"fairvio/backend/internal/config"
	"fairvio/backend/internal/models"
	"fairvio/backend/internal/storage"
	"fairvio/backend/internal/wizard"
)

type selectIssuesRequest struct {
	CategoryIDs []string `json:"categoryIDs"`
	Anonymous   bool     `json:"anonymous"`
}

// Categories serves the static issue catalog.
func (h *Handler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": wizard.Categories()})
}

// SelectIssues is the selection step: at least one known category or the
// wizard does not advance.
func (h *Handler) SelectIssues(c *gin.Context) {
	var req selectIssuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.Wizard.StartSession(auth.UserID(c), req.CategoryIDs, req.Anonymous)
	if errors.Is(err, wizard.ErrNoSelection) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select at least one issue to proceed."})
		return
	}
	if errors.Is(err, wizard.ErrUnknownCategory) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown issue category"})
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("could not start wizard session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "There was an error submitting your report. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionID": sess.ID,
		"redirect":  "/report-details?session=" + sess.ID,
	})
}

// WizardState returns the session, its active category and any saved draft,
// which is everything the details page needs to render a step.
func (h *Handler) WizardState(c *gin.Context) {
	sess, ok := h.loadSession(c, c.Param("id"))
	if !ok {
		return
	}

	cat, err := h.Wizard.ActiveCategory(sess)
	if errors.Is(err, wizard.ErrSessionDone) {
		c.JSON(http.StatusOK, gin.H{"done": true, "redirect": "/report-confirmation"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.Wizard.Draft(sess, cat.ID)
	if err != nil {
		h.Log.Warn().Err(err).Msg("could not load draft")
	}

	c.JSON(http.StatusOK, gin.H{
		"session":  sess,
		"category": cat,
		"draft":    draft,
		"position": sess.ActiveIndex + 1,
		"total":    len(sess.SelectedIssues),
	})
}

type draftRequest struct {
	SessionID string           `json:"sessionID" binding:"required"`
	Form      models.DraftForm `json:"form"`
}

// SaveDraft is the "save progress" action: stores the current values
// without leaving the step.
func (h *Handler) SaveDraft(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := h.loadSession(c, req.SessionID)
	if !ok {
		return
	}
	if err := h.Wizard.SaveDraft(sess, req.Form); err != nil {
		h.Log.Error().Err(err).Msg("draft save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "There was an error saving your progress."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

type exitRequest struct {
	SessionID string           `json:"sessionID" binding:"required"`
	Save      bool             `json:"save"`
	Form      models.DraftForm `json:"form"`
}

// ExitWizard resolves the dirty-form confirmation: save-then-leave or
// leave-without-saving. (Cancel is simply no call.)
func (h *Handler) ExitWizard(c *gin.Context) {
	var req exitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := h.loadSession(c, req.SessionID)
	if !ok {
		return
	}

	if req.Save {
		if err := h.Wizard.SaveDraft(sess, req.Form); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "There was an error saving your progress."})
			return
		}
	} else {
		if err := h.Wizard.DiscardDraft(sess); err != nil {
			h.Log.Warn().Err(err).Msg("draft discard failed")
		}
	}
	c.JSON(http.StatusOK, gin.H{"redirect": "/report-issue"})
}

// SubmitReport persists the active issue as one report row plus evidence
// and advances the wizard. Requires a signed-in user; the route is wrapped
// in auth.RequireAPI so an anonymous submit gets the sign-in redirect with
// its return path preserved.
func (h *Handler) SubmitReport(c *gin.Context) {
	sessionID := c.PostForm("session_id")
	sess, ok := h.loadSession(c, sessionID)
	if !ok {
		return
	}

	userID := auth.UserID(c)
	if err := h.Wizard.Claim(sess, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "There was an error submitting your report. Please try again."})
		return
	}

	form := models.DraftForm{
		When:                c.PostForm("when"),
		Where:               c.PostForm("where"),
		Who:                 c.PostForm("who"),
		What:                c.PostForm("what"),
		EvidenceDescription: c.PostForm("evidence_description"),
	}

	files, err := h.evidenceUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Wizard.Submit(sess, userID, form, files)
	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Fields})
		return
	}
	if errors.Is(err, wizard.ErrEvidenceTooBig) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "evidence file exceeds the size limit"})
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Str("session", sess.ID).Msg("report submission failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "There was an error submitting your report. Please try again."})
		return
	}

	h.Notifier.ReportSubmitted(result.Report, sess.Anonymous)

	if result.Done {
		c.JSON(http.StatusOK, gin.H{
			"reportID": result.Report.ID,
			"done":     true,
			"redirect": "/report-confirmation",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reportID": result.Report.ID,
		"done":     false,
		"next": gin.H{
			"category": result.NextCategory,
			"draft":    result.NextDraft,
			"position": sess.ActiveIndex + 1,
			"total":    len(sess.SelectedIssues),
		},
	})
}

// ListMyReports returns the signed-in user's reports, newest first.
func (h *Handler) ListMyReports(c *gin.Context) {
	reports, err := h.Storage.ListReportsByUser(auth.UserID(c))
	if err != nil {
		h.Log.Error().Err(err).Msg("could not list reports")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load your reports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// loadSession fetches a wizard session and answers the error itself when it
// cannot.
func (h *Handler) loadSession(c *gin.Context, id string) (*models.WizardSession, bool) {
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing wizard session", "redirect": "/report-issue"})
		return nil, false
	}
	sess, err := h.Wizard.Session(id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "wizard session expired", "redirect": "/report-issue"})
		return nil, false
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("could not load wizard session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load wizard session"})
		return nil, false
	}
	return sess, true
}

func (h *Handler) evidenceUploads(c *gin.Context) ([]wizard.EvidenceUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	var uploads []wizard.EvidenceUpload
	for _, fh := range form.File["evidence"] {
		if fh.Size > config.MaxEvidenceSize {
			return nil, wizard.ErrEvidenceTooBig
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(io.LimitReader(f, config.MaxEvidenceSize+1))
		f.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, wizard.EvidenceUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     content,
		})
	}
	return uploads, nil
}
