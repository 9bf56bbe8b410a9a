package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandleTelegramWebhook receives bot updates. Telegram only needs a 200 to
// stop redelivering; dialogue failures are reported to the user in chat.
func (s *Server) HandleTelegramWebhook(c *gin.Context) {
	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	s.intake.HandleUpdate(c.Request.Context(), update)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
