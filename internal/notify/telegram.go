package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"polyoracle/internal/config"
	"polyoracle/internal/models"
)

var urgencyRank = map[string]int{
	models.UrgencyLow:      0,
	models.UrgencyMedium:   1,
	models.UrgencyHigh:     2,
	models.UrgencyCritical: 3,
}

// TelegramNotifier pushes stored signals at or above a minimum urgency to a
// Telegram chat. Delivery is best-effort; failures are logged and dropped.
type TelegramNotifier struct {
	bot        *tgbotapi.BotAPI
	chatID     int64
	minUrgency string
	logger     *zap.Logger
}

func NewTelegram(cfg config.NotifyConfig, logger *zap.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init failed: %w", err)
	}
	minUrgency := cfg.MinUrgency
	if _, ok := urgencyRank[minUrgency]; !ok {
		minUrgency = models.UrgencyHigh
	}
	return &TelegramNotifier{
		bot:        bot,
		chatID:     cfg.TelegramChatID,
		minUrgency: minUrgency,
		logger:     logger,
	}, nil
}

func (n *TelegramNotifier) SignalStored(signal models.Signal, question string) {
	if n == nil || n.bot == nil {
		return
	}
	if urgencyRank[signal.Urgency] < urgencyRank[n.minUrgency] {
		return
	}

	text := fmt.Sprintf(
		"Signal %d/100 %s (%s, %s)\n%s",
		signal.Score, signal.Action, signal.Confidence, signal.Urgency, question,
	)
	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		if n.logger != nil {
			n.logger.Warn("telegram notify failed", zap.Error(err), zap.Uint64("signal_id", signal.ID))
		}
	}
}
