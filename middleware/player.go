package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yunlin/oldtown/utils"
)

const (
	// PlayerHeader carries the player id for clients that do not keep cookies.
	PlayerHeader = "X-Player-ID"
	// PlayerCookie is the cookie the player id is issued in.
	PlayerCookie = "player_id"
	// ContextPlayerIDKey stores the resolved player id inside Gin context.
	ContextPlayerIDKey = "player_id"

	playerCookieMaxAge = int(365 * 24 * time.Hour / time.Second)
)

// PlayerIdentity resolves the anonymous player id from the header or cookie.
// A request without one is issued a fresh id; a malformed id is rejected.
func PlayerIdentity(secure bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw := strings.TrimSpace(ctx.GetHeader(PlayerHeader))
		if raw == "" {
			raw, _ = ctx.Cookie(PlayerCookie)
		}

		var id string
		if raw == "" {
			id = uuid.NewString()
			ctx.SetSameSite(http.SameSiteLaxMode)
			ctx.SetCookie(PlayerCookie, id, playerCookieMaxAge, "/", "", secure, true)
		} else {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				utils.Error(ctx, http.StatusBadRequest, "invalid player id")
				return
			}
			id = parsed.String()
		}

		ctx.Header(PlayerHeader, id)
		ctx.Set(ContextPlayerIDKey, id)
		ctx.Next()
	}
}

// PlayerID returns the id resolved by PlayerIdentity.
func PlayerID(ctx *gin.Context) string {
	return ctx.GetString(ContextPlayerIDKey)
}
