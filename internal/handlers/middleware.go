package handlers

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/justsurfingit/jobtrack/internal/services"
)

// HeaderUserID carries the authenticated user's id, set by the auth gateway in front of the API.
const HeaderUserID = "X-User-ID"

const userIDKey = "userID"

// RequireUser rejects requests without a valid user id header.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(HeaderUserID))
		if err != nil || id == uuid.Nil {
			respondError(c, services.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

func currentUser(c *gin.Context) uuid.UUID {
	return c.MustGet(userIDKey).(uuid.UUID)
}

// bearerMatches compares "Bearer <secret>" in constant time. An empty secret never matches.
func bearerMatches(header, secret string) bool {
	if secret == "" {
		return false
	}
	want := "Bearer " + secret
	return subtle.ConstantTimeCompare([]byte(header), []byte(want)) == 1
}
