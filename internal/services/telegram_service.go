package services

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramService шлёт уведомления в операционный чат (модерация,
// выплаты, верификация). Nil-receiver безопасен: без токена в конфиге
// сервис не создаётся, вызовы превращаются в no-op.
type TelegramService struct {
	bot       *tgbotapi.BotAPI
	opsChatID int64
}

func NewTelegramService(botToken string, opsChatID int64) *TelegramService {
	if botToken == "" || opsChatID == 0 {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[tg][init] bot init failed: %v", err)
		return nil
	}
	return &TelegramService{bot: bot, opsChatID: opsChatID}
}

func (t *TelegramService) NotifyOps(text string) {
	if t == nil || t.bot == nil {
		return
	}
	msg := tgbotapi.NewMessage(t.opsChatID, text)
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("[tg][send] chatID=%d failed: %v", t.opsChatID, err)
	}
}
