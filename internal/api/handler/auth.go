package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fairvio/backend/internal/auth"
	"fairvio/backend/internal/config"
)

type signUpRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignUp registers an account and opens a session.
func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.Auth.SignUp(req.Email, req.Password, req.Name)
	if errors.Is(err, auth.ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("sign-up failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
		return
	}

	h.setSession(c, token)
	c.JSON(http.StatusOK, gin.H{"user": user, "redirect": h.returnPath(c)})
}

// SignIn opens a session and honors the preserved return path.
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.Auth.SignIn(req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("sign-in failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign in"})
		return
	}

	h.setSession(c, token)
	c.JSON(http.StatusOK, gin.H{"user": user, "redirect": h.returnPath(c)})
}

// SignOut revokes the session token and clears the cookie. SessionToken is
// only set for tokens that passed Identify, so an already invalid token
// just gets its cookie cleared.
func (h *Handler) SignOut(c *gin.Context) {
	if token := auth.SessionToken(c); token != "" {
		if err := h.Auth.SignOut(token); err != nil {
			h.Log.Error().Err(err).Msg("sign-out revocation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign out"})
			return
		}
	}
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"redirect": "/"})
}

// SessionInfo reports the current session state to the page chrome.
func (h *Handler) SessionInfo(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusOK, gin.H{"signedIn": false})
		return
	}
	user, err := h.Storage.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"signedIn": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"signedIn": true, "user": user})
}

type languageRequest struct {
	Language string `json:"language" binding:"required"`
}

// SetLanguage persists the language preference: cookie for everyone,
// profile row for signed-in users.
func (h *Handler) SetLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !config.IsSupportedLanguage(req.Language) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported language"})
		return
	}

	c.SetCookie(languageCookie, req.Language, cookieMaxAge, "/", "", false, false)
	if userID := auth.UserID(c); userID != "" {
		if err := h.Storage.SetLanguage(userID, req.Language); err != nil {
			h.Log.Warn().Err(err).Msg("could not persist language preference")
		}
	}
	c.JSON(http.StatusOK, gin.H{"language": req.Language})
}

func (h *Handler) setSession(c *gin.Context, token string) {
	c.SetCookie(auth.SessionCookie, token, int(config.TokenLifetime.Seconds()), "/", "", false, true)
}

// returnPath yields the page to land on after auth, defaulting to home.
func (h *Handler) returnPath(c *gin.Context) string {
	if r := c.Query("return"); r != "" && r[0] == '/' {
		return r
	}
	return "/"
}
