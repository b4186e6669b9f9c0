package controller

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageSender is the part of *bot.Bot used for delivery
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type ProfileLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
}

// TelegramDeliverer pushes stored notifications to profiles with a linked chat
type TelegramDeliverer struct {
	sender   MessageSender
	profiles ProfileLookup
	logger   *zap.Logger
}

func NewTelegramDeliverer(sender MessageSender, profiles ProfileLookup, logger *zap.Logger) *TelegramDeliverer {
	return &TelegramDeliverer{
		sender:   sender,
		profiles: profiles,
		logger:   logger,
	}
}

// Deliver sends n to the recipient's chat. Profiles without a chat are skipped.
func (d *TelegramDeliverer) Deliver(ctx context.Context, n *model.Notification) error {
	profile, err := d.profiles.GetByID(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}
	if profile == nil || profile.TelegramChatID == nil {
		return nil
	}

	_, err = d.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: *profile.TelegramChatID,
		Text:   FormatNotification(n),
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	d.logger.Debug("Notification delivered to telegram",
		zap.String("notification_id", n.ID.String()),
		zap.Int64("chat_id", *profile.TelegramChatID),
	)
	return nil
}

func FormatNotification(n *model.Notification) string {
	return n.Title + "\n\n" + n.Message
}
