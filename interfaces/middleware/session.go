package middleware

import (
	"github.com/gin-gonic/gin"

	"meta-ads-setup/infrastructure/logger"
	"meta-ads-setup/infrastructure/utils"
)

// SessionCookie carries the signed session id across the OAuth redirect.
const SessionCookie = "wizard_session"

const cookieMaxAge = 30 * 24 * 60 * 60

// Session resolves the wizard session id from a signed cookie, minting a new
// one when absent or invalid. Handlers read it via ctx.GetString("session_id").
func Session(secretKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var sessionID string
		if cookie, err := ctx.Cookie(SessionCookie); err == nil && cookie != "" {
			if sid, err := utils.ParseSessionToken(cookie, secretKey); err == nil {
				sessionID = sid
			}
		}
		if sessionID == "" {
			sessionID = utils.RandomHex(16)
			token, err := utils.GenerateToken(map[string]interface{}{
				"sid": sessionID,
				"iat": utils.GetCurrentTime().Unix(),
			}, secretKey)
			if err != nil {
				logger.GetLogger().WithField("error", err).Error("Failed to sign session cookie")
			} else {
				ctx.SetCookie(SessionCookie, token, cookieMaxAge, "/", "", false, true)
			}
		}
		ctx.Set("session_id", sessionID)
		ctx.Next()
	}
}
