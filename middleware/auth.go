package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"farmcare/localization"
)

// Context keys set by the middleware.
const (
	UserIDKey   = "user_id"
	LanguageKey = "language"
)

// LanguageHeader selects the response language.
const LanguageHeader = "X-Language"

// Language stores the requested language in the context. A missing or
// unknown header selects fallback.
func Language(fallback localization.Language) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := fallback
		if known, ok := localization.Lookup(c.GetHeader(LanguageHeader)); ok {
			lang = known
		}
		c.Set(LanguageKey, lang)
		c.Next()
	}
}

// GetLanguage returns the language set by Language, or the base language.
func GetLanguage(c *gin.Context) localization.Language {
	if v, ok := c.Get(LanguageKey); ok {
		if lang, ok := v.(localization.Language); ok {
			return lang
		}
	}
	return localization.Base
}

// OptionalAuth sets the user id when a valid bearer token is present.
// Requests without a token continue anonymously; a present but invalid
// token is rejected.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString := extractToken(authHeader)
		if tokenString == "" {
			log.Warnf("Invalid authorization format from %s", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			c.Abort()
			return
		}

		userID, err := ValidateToken(tokenString, secret)
		if err != nil {
			log.Warnf("Invalid token from %s: %v", c.ClientIP(), err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		log.Debugf("Token validated for user %s from %s", userID, c.ClientIP())
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// RequireUser rejects anonymous requests. It must run after OptionalAuth.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == "" {
			msg := localization.Message("Authentication required", GetLanguage(c))
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id, or "" for anonymous callers.
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// ValidateToken checks an HS256 token and returns its user id, taken from
// the user_id claim or, failing that, sub.
func ValidateToken(tokenString, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("token validation is not configured")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	if tokenType, _ := claims["type"].(string); tokenType == "refresh" {
		return "", errors.New("cannot use refresh token for authentication")
	}
	if userID, ok := claims["user_id"].(string); ok && userID != "" {
		return userID, nil
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	return "", errors.New("invalid user id in token")
}

func extractToken(authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
