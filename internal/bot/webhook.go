package bot

import (
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// WebhookHandler is the inbound HTTP surface: one endpoint receiving
// Telegram update payloads.
type WebhookHandler struct {
	bot    *Bot
	logger *zap.Logger
}

func NewWebhookHandler(bot *Bot, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{bot: bot, logger: logger}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.logger.Warn("Failed to decode webhook payload", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	h.bot.HandleUpdate(r.Context(), &update)

	// The platform only needs an acknowledgment; outcomes never surface
	// through the HTTP response.
	w.Write([]byte("True"))
}
