package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fairvio/backend/internal/auth"
	"fairvio/backend/internal/call"
	"fairvio/backend/internal/chat"
	"fairvio/backend/internal/config"
	"fairvio/backend/internal/handoff"
	"fairvio/backend/internal/localization"
	"fairvio/backend/internal/notify"
	"fairvio/backend/internal/storage"
	"fairvio/backend/internal/wizard"
)

const (
	// visitorCookie identifies a browser session for drafts and the
	// hand-off slot, independent of sign-in state.
	visitorCookie = "fv_session"
	// languageCookie persists the language preference across visits.
	languageCookie = "language"

	cookieMaxAge = 60 * 60 * 24 * 365
)

// Placer places outbound calls; the handlers go through the initiate-call
// function, not the carrier directly.
type Placer interface {
	PlaceCall(ctx context.Context, toNumber string) (*call.PlacementResult, error)
}

// Handler wires the page and API endpoints to the services behind them.
type Handler struct {
	Storage   storage.Storage
	Auth      *auth.Service
	Wizard    *wizard.Service
	Chat      *chat.Client
	Placer    Placer
	Handoff   *handoff.Slot
	Localizer *localization.Localizer
	Notifier  *notify.Notifier
	Cfg       config.Config
	Log       zerolog.Logger
}

func NewHandler(
	s storage.Storage,
	authSvc *auth.Service,
	wizardSvc *wizard.Service,
	chatClient *chat.Client,
	placer Placer,
	slot *handoff.Slot,
	localizer *localization.Localizer,
	notifier *notify.Notifier,
	cfg config.Config,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		Storage:   s,
		Auth:      authSvc,
		Wizard:    wizardSvc,
		Chat:      chatClient,
		Placer:    placer,
		Handoff:   slot,
		Localizer: localizer,
		Notifier:  notifier,
		Cfg:       cfg,
		Log:       log,
	}
}

// EnsureVisitor assigns every browser a session id used to key drafts and
// the hand-off slot.
func (h *Handler) EnsureVisitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := c.Cookie(visitorCookie); err != nil {
			id := uuid.New().String()
			c.SetCookie(visitorCookie, id, cookieMaxAge, "/", "", false, true)
			c.Set(visitorCookie, id)
		}
		c.Next()
	}
}

// visitorID returns the browser session id set by EnsureVisitor.
func (h *Handler) visitorID(c *gin.Context) string {
	if id, err := c.Cookie(visitorCookie); err == nil && id != "" {
		return id
	}
	return c.GetString(visitorCookie)
}

// language resolves the display language: explicit ?lang switch, then the
// cookie, then the signed-in user's stored preference, then the default.
func (h *Handler) language(c *gin.Context) string {
	if lang := c.Query("lang"); config.IsSupportedLanguage(lang) {
		c.SetCookie(languageCookie, lang, cookieMaxAge, "/", "", false, false)
		return lang
	}
	if lang, err := c.Cookie(languageCookie); err == nil && config.IsSupportedLanguage(lang) {
		return lang
	}
	if userID := auth.UserID(c); userID != "" {
		if lang, err := h.Storage.GetLanguage(userID); err == nil && config.IsSupportedLanguage(lang) {
			return lang
		}
	}
	return config.DefaultLanguage
}
