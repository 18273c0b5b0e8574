// Package notify pings the caseworker channel when a new report lands.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"fairvio/backend/internal/models"
)

// Notifier sends staff notifications over Telegram. A nil *Notifier is a
// valid no-op, so deployments without a bot token just skip notifications.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    zerolog.Logger
}

// New connects the bot. Returns (nil, nil) when no token is configured.
func New(token string, chatID int64, log zerolog.Logger) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify: %w", err)
	}
	log.Info().Str("bot", bot.Self.UserName).Msg("staff notifier connected")
	return &Notifier{bot: bot, chatID: chatID, log: log}, nil
}

// ReportSubmitted announces a freshly submitted report to the staff chat.
// Failures are logged, never surfaced to the reporter.
func (n *Notifier) ReportSubmitted(report *models.IssueReport, anonymous bool) {
	if n == nil {
		return
	}

	reporter := "registered user"
	if anonymous {
		reporter = "anonymous reporter"
	}
	text := fmt.Sprintf(
		"New workplace issue report\nType: %s\nTitle: %s\nLocation: %s\nFrom: %s\nReport ID: %s",
		report.IssueType, report.IssueTitle, report.IncidentLocation, reporter, report.ID,
	)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.log.Error().Err(err).Str("report_id", report.ID).Msg("staff notification failed")
	}
}
