package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/shopspring/decimal"

	"github.com/bittietasks/platform/internal/domain"
)

// Notifier posts operational alerts to a Telegram chat. A nil bot or zero
// chat id disables it; every method is then a no-op.
type Notifier struct {
	bot    *bot.Bot
	chatID int64
}

func New(b *bot.Bot, chatID int64) *Notifier {
	return &Notifier{bot: b, chatID: chatID}
}

func (n *Notifier) send(text string) {
	if n == nil || n.bot == nil || n.chatID == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    n.chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		slog.Error("failed to send telegram alert", "error", err)
	}
}

func (n *Notifier) Registration(email string) {
	n.send(fmt.Sprintf("👤 *New Registration*\n\n*Email:* %s", email))
}

func (n *Notifier) VerificationDecided(id int64, taskID string, status domain.VerificationStatus) {
	n.send(fmt.Sprintf("📋 *Verification %s*\n\n*ID:* `%d`\n*Task:* %s", status, id, taskID))
}

func (n *Notifier) PayoutReleased(userID int64, amount decimal.Decimal) {
	n.send(fmt.Sprintf("💰 *Payout Released*\n\n*User:* `%d`\n*Net:* $%s", userID, amount.StringFixed(2)))
}
