package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"zymo/internal/logging"
)

const sessionKey = "session_id"

// SessionConfig configures the visitor session cookie.
type SessionConfig struct {
	Cookie     string
	Issuer     string
	SigningKey string
	TTL        time.Duration
	Secure     bool
	Now        func() time.Time
}

// Session identifies the visitor by a signed session cookie, minting a new
// session when the cookie is missing, expired or forged. The session id is
// stored on the gin context and read back with SessionID.
func Session(cfg SessionConfig) gin.HandlerFunc {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := logging.PackageLogger("auth")

	return func(c *gin.Context) {
		if raw, err := c.Cookie(cfg.Cookie); err == nil && raw != "" {
			if claims, err := Parse(raw, cfg.SigningKey, cfg.Issuer); err == nil {
				c.Set(sessionKey, claims.Subject)
				c.Next()
				return
			}
		}

		sid := uuid.NewString()
		tok, err := Issue(sid, cfg.Issuer, cfg.SigningKey, cfg.TTL, cfg.Now())
		if err != nil {
			logger.Error().Err(err).Msg("session token issue failed")
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		logger.Debug().Str(logging.EVENT, "session_started").Msg("new visitor session")
		setCookie(c, cfg, tok)
		c.Set(sessionKey, sid)
		c.Next()
	}
}

func setCookie(c *gin.Context, cfg SessionConfig, tok Token) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.Cookie,
		Value:    tok.Value,
		Path:     "/",
		Expires:  tok.ExpiresAt,
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionID returns the session id set by Session, or "" when absent.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
