package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie carries the JWT for browser navigation; API callers may
	// use an Authorization bearer header instead.
	SessionCookie = "fv_token"

	ctxUserID = "userID"
	ctxToken  = "sessionToken"
)

// TokenFromRequest extracts the session token from the cookie or the
// Authorization header, preferring the header.
func TokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// Identify resolves the current user, when any, without blocking the
// request. Pages use it so signed-out visitors still render.
func (s *Service) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			c.Next()
			return
		}
		claims, err := s.ParseToken(token)
		if err != nil {
			c.Next()
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxToken, token)
		c.Next()
	}
}

// RequireAPI rejects unauthenticated JSON calls with 401 and the sign-in
// location, preserving the caller's return path. The return path must be a
// page, not the API route itself: callers pass their own location in the
// `return` query, and the Referer covers callers that don't.
func RequireAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			returnTo := c.Query("return")
			if returnTo == "" {
				returnTo = refererPath(c)
			}
			if returnTo == "" {
				returnTo = "/"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "authentication required",
				"redirect": "/sign-in?return=" + url.QueryEscape(returnTo),
			})
			return
		}
		c.Next()
	}
}

// refererPath extracts the page the request was made from, as a local path.
func refererPath(c *gin.Context) string {
	ref, err := url.Parse(c.GetHeader("Referer"))
	if err != nil || ref.Path == "" {
		return ""
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

// RequirePage redirects unauthenticated page loads to sign-in, preserving
// the intended return path.
func RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			c.Redirect(http.StatusFound, "/sign-in?return="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or "" for anonymous visitors.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// SessionToken returns the raw token the current request authenticated with.
func SessionToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}
