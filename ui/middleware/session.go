package middleware

import (
	"log"

	"inflationdash/domain/core"
	"inflationdash/internal/errors"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session_id"

// SessionLookup returns an error when the session is unknown or expired
type SessionLookup func(core.SessionID) error

// RequireSession resolves the :id path parameter to a live session before
// the handler runs
func RequireSession(lookup SessionLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := core.ParseSessionID(c.Param("id"))
		if err != nil {
			Abort(c, errors.WithCode(errors.CodeInvalidInput, err))
			return
		}

		if err := lookup(id); err != nil {
			log.Printf("[RequireSession] session %s rejected: %v", id, err)
			Abort(c, err)
			return
		}

		c.Set(sessionKey, id)
		c.Next()
	}
}

// SessionID returns the session resolved by RequireSession
func SessionID(c *gin.Context) core.SessionID {
	return c.MustGet(sessionKey).(core.SessionID)
}
