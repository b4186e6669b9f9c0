package controller

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// BotController serves the chat commands profiles use to link Telegram
type BotController struct {
	bot    *bot.Bot
	logger *zap.Logger
}

func NewBotController(botInstance *bot.Bot, logger *zap.Logger) *BotController {
	return &BotController{
		bot:    botInstance,
		logger: logger,
	}
}

// RegisterHandlers registers the commands and sets the bot menu
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.HandleHelp)

	return c.setCommands(ctx)
}

func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "Show the chat id to link with your profile"},
		{Command: "help", Description: "What this bot sends"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// HandleStart replies with the chat id staff store on the profile
func (c *BotController) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   StartText(update.Message.Chat.ID),
	})
	if err != nil {
		c.logger.Warn("Failed to answer /start",
			zap.Int64("chat_id", update.Message.Chat.ID),
			zap.Error(err),
		)
	}
}

func (c *BotController) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   helpText,
	})
}

// Start blocks polling updates until ctx is done
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}

const helpText = "This bot forwards appointment notifications: cancellations, completions, ratings " +
	"and reminders 30 and 10 minutes before the start.\n\n" +
	"Send /start to get the chat id to link with your profile."

func StartText(chatID int64) string {
	return fmt.Sprintf("Your chat id is %d.\n\nAsk an administrator to link it to your profile "+
		"to receive appointment notifications here.", chatID)
}
