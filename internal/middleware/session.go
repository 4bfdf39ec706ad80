package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const NoticeKey = "notice"

const noticeFlash = "notice"

// LoadNotice moves the one-shot flash notice from the session into the context.
func LoadNotice() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if flashes := session.Flashes(noticeFlash); len(flashes) > 0 {
			if msg, ok := flashes[0].(string); ok {
				c.Set(NoticeKey, msg)
			}
			session.Save()
		}
		c.Next()
	}
}

// SetNotice stores a message shown on the next rendered page.
func SetNotice(c *gin.Context, msg string) {
	session := sessions.Default(c)
	session.AddFlash(msg, noticeFlash)
	session.Save()
}
