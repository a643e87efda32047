package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/zamanak-app/zamanak/internal/domain"
	"github.com/zamanak-app/zamanak/internal/jalali"
)

// TelegramNotifier delivers reminders to a Telegram chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(r *domain.Reminder, resolvedTitle string) error {
	d := jalali.FromTime(r.FireTime)
	text := fmt.Sprintf("🔔 <b>یادآوری</b>\n\n%s\n\n📅 %s (%s)\n⏰ %s",
		resolvedTitle,
		d.String(),
		jalali.WeekdayName(d.Weekday()),
		r.FireTime.Format("15:04"),
	)

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
