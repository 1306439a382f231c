package telegram

import (
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// Alerter pushes cycle failures to a Telegram chat. Delivery problems
// are logged and swallowed: a broken alert channel must never fail the
// cycle that tried to report a failure.
type Alerter struct {
	bot    *telebot.Bot
	chatID int64
	logger *logrus.Logger
}

func NewAlerter(token string, chatID int64, logger *logrus.Logger) (*Alerter, error) {
	// Send-only: no poller, no update handlers.
	bot, err := telebot.NewBot(telebot.Settings{Token: token})
	if err != nil {
		return nil, err
	}
	return &Alerter{bot: bot, chatID: chatID, logger: logger}, nil
}

func (a *Alerter) Notify(message string) {
	recipient := &telebot.Chat{ID: a.chatID}
	opts := &telebot.SendOptions{DisableWebPagePreview: true}

	stamped := time.Now().Format("02/01/2006 15:04:05") + " - " + message
	if _, err := a.bot.Send(recipient, stamped, opts); err != nil {
		a.logger.Errorf("Could not deliver alert to Telegram chat %d: %v", a.chatID, err)
	}
}
