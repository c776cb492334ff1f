// Package notify sends run reports to an optional Telegram chat.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"

	"github.com/spellgrid/gridder/internal/config"
	"github.com/spellgrid/gridder/internal/logger"
	"github.com/spellgrid/gridder/internal/run"
)

// messageSender is the slice of the telego bot API the notifier uses.
type messageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// Telegram reports run outcomes to one chat. Reporting is best-effort: a
// failed send is logged and never fails the run.
type Telegram struct {
	bot    messageSender
	chatID int64
	log    *logger.Logger
}

// NewTelegram creates the notifier from configuration.
func NewTelegram(cfg config.TelegramConfig, log *logger.Logger) (*Telegram, error) {
	bot, err := telego.NewBot(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Telegram{
		bot:    bot,
		chatID: cfg.ChatID,
		log:    log,
	}, nil
}

// RunSucceeded reports a finished run.
func (t *Telegram) RunSucceeded(ctx context.Context, result *run.Result) {
	text := fmt.Sprintf("gridder: published %s (%d pairs, %d length rows) in %s",
		result.Date.Format("2006-01-02"), result.PairCount, result.LengthCount,
		result.Duration.Round(time.Millisecond))
	if result.SheetName != "" {
		text += fmt.Sprintf(", sheet %q", result.SheetName)
	}
	t.send(ctx, text)
}

// RunFailed reports a failed run.
func (t *Telegram) RunFailed(ctx context.Context, date time.Time, runErr error) {
	t.send(ctx, fmt.Sprintf("gridder: run for %s failed: %v", date.Format("2006-01-02"), runErr))
}

func (t *Telegram) send(ctx context.Context, text string) {
	params := &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: t.chatID},
		Text:   text,
	}
	if _, err := t.bot.SendMessage(ctx, params); err != nil {
		t.log.Error("failed to send telegram report", err)
	}
}
