// Package notify sends run summaries to Telegram.
package notify

import (
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/akarpenko/propline/internal/pkg/config"
)

// Notifier posts run summaries to a Telegram chat. A nil Notifier is valid
// and drops every message, so callers never branch on whether notifications
// are configured.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// New builds a Notifier from config. Returns nil when notifications are
// disabled or the bot cannot be created.
func New(cfg *config.TelegramConfig) *Notifier {
	if !cfg.Enabled || cfg.Token == "" {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		slog.Warn("telegram bot unavailable, notifications disabled", "error", err)
		return nil
	}
	return &Notifier{bot: bot, chatID: cfg.ChatID}
}

// SendRunSummary reports how a resolution run went.
func (n *Notifier) SendRunSummary(runID string, resolved, skipped int, failures []string) {
	if n == nil {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Resolution run %s\n", runID)
	fmt.Fprintf(&b, "Resolved: %d\n", resolved)
	fmt.Fprintf(&b, "Skipped: %d\n", skipped)
	if len(failures) > 0 {
		b.WriteString("Failures:\n")
		for _, f := range failures {
			fmt.Fprintf(&b, "  • %s\n", f)
		}
	}

	msg := tgbotapi.NewMessage(n.chatID, b.String())
	if _, err := n.bot.Send(msg); err != nil {
		slog.Warn("failed to send telegram notification", "error", err)
	}
}
