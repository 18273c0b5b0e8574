package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fairvio/backend/internal/auth"
	"fairvio/backend/internal/chat"
	"fairvio/backend/internal/config"
	"fairvio/backend/internal/models"
	"fairvio/backend/internal/wizard"
)

// pageData assembles what every template needs: a bound translation lookup,
// the active language and the session state for the header.
func (h *Handler) pageData(c *gin.Context, extra gin.H) gin.H {
	lang := h.language(c)
	data := gin.H{
		"T":         h.Localizer.Func(lang),
		"Lang":      lang,
		"Languages": config.SupportedLanguages,
		"SignedIn":  auth.UserID(c) != "",
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

func (h *Handler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", h.pageData(c, nil))
}

func (h *Handler) SignInPage(c *gin.Context) {
	c.HTML(http.StatusOK, "sign_in.html", h.pageData(c, gin.H{"Return": c.Query("return")}))
}

func (h *Handler) SignUpPage(c *gin.Context) {
	c.HTML(http.StatusOK, "sign_up.html", h.pageData(c, gin.H{"Return": c.Query("return")}))
}

// ChatPage seeds the conversation with the welcome message and, when a call
// summary is pending in the hand-off slot, surfaces it as an assistant turn
// and clears the slot.
func (h *Handler) ChatPage(c *gin.Context) {
	seed := []models.ChatMessage{{ID: "welcome", Role: models.RoleAssistant, Content: chat.WelcomeMessage}}

	summary, ok, err := h.Handoff.Take(h.visitorID(c))
	if err != nil {
		h.Log.Warn().Err(err).Msg("could not read hand-off slot")
	}
	if ok {
		seed = append(seed, models.ChatMessage{
			ID:      "summary",
			Role:    models.RoleAssistant,
			Content: chat.HandoffPrefix + summary,
		})
	}

	c.HTML(http.StatusOK, "chat.html", h.pageData(c, gin.H{"Seed": seed}))
}

func (h *Handler) CallPage(c *gin.Context) {
	c.HTML(http.StatusOK, "call.html", h.pageData(c, nil))
}

func (h *Handler) ReportIssuePage(c *gin.Context) {
	c.HTML(http.StatusOK, "report_issue.html", h.pageData(c, gin.H{"Categories": wizard.Categories()}))
}

func (h *Handler) ReportDetailsPage(c *gin.Context) {
	sessionID := c.Query("session")
	if sessionID == "" {
		// No selected issues; back to the selection step.
		c.Redirect(http.StatusFound, "/report-issue")
		return
	}
	c.HTML(http.StatusOK, "report_details.html", h.pageData(c, gin.H{"SessionID": sessionID}))
}

// ReportConfirmationPage closes the wizard; a pending hand-off summary (from
// the call flow's "create report from summary") is shown alongside.
func (h *Handler) ReportConfirmationPage(c *gin.Context) {
	summary, _, err := h.Handoff.Take(h.visitorID(c))
	if err != nil {
		h.Log.Warn().Err(err).Msg("could not read hand-off slot")
	}
	c.HTML(http.StatusOK, "report_confirmation.html", h.pageData(c, gin.H{"Summary": summary}))
}

// MyReportsPage lists the signed-in user's reports newest first.
func (h *Handler) MyReportsPage(c *gin.Context) {
	reports, err := h.Storage.ListReportsByUser(auth.UserID(c))
	if err != nil {
		h.Log.Error().Err(err).Msg("could not load reports page")
		reports = nil
	}
	c.HTML(http.StatusOK, "my_reports.html", h.pageData(c, gin.H{"Reports": reports}))
}

func (h *Handler) PrivacyPolicyPage(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy_policy.html", h.pageData(c, nil))
}

func (h *Handler) TermsOfServicePage(c *gin.Context) {
	c.HTML(http.StatusOK, "terms_of_service.html", h.pageData(c, nil))
}

func (h *Handler) HowToUsePage(c *gin.Context) {
	c.HTML(http.StatusOK, "how_to_use.html", h.pageData(c, nil))
}

func (h *Handler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found.html", h.pageData(c, nil))
}
