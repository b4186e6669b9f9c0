package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/Freeeeeet/agenda_service/internal/repository/memory"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	sent []*bot.SendMessageParams
	err  error
}

func (s *recordingSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, params)
	return &models.Message{}, nil
}

func TestTelegramDeliverer(t *testing.T) {
	store := memory.New()
	chatID := int64(424242)
	linked := store.AddProfile(model.Profile{Name: "Linked", Role: model.RoleSchool, TelegramChatID: &chatID})
	unlinked := store.AddProfile(model.Profile{Name: "Unlinked", Role: model.RoleSchool})

	sender := &recordingSender{}
	d := NewTelegramDeliverer(sender, store.Profiles(), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, d.Deliver(ctx, &model.Notification{UserID: linked.ID, Title: "Appointment reminder", Message: "Soon"}))
	require.NoError(t, d.Deliver(ctx, &model.Notification{UserID: unlinked.ID, Title: "Ignored", Message: "x"}))
	require.NoError(t, d.Deliver(ctx, &model.Notification{UserID: uuid.New(), Title: "Unknown", Message: "x"}))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, chatID, sender.sent[0].ChatID)
	assert.Equal(t, "Appointment reminder\n\nSoon", sender.sent[0].Text)
}

func TestTelegramDeliverer_SendFailure(t *testing.T) {
	store := memory.New()
	chatID := int64(7)
	p := store.AddProfile(model.Profile{Name: "Linked", Role: model.RoleDepartment, TelegramChatID: &chatID})

	d := NewTelegramDeliverer(&recordingSender{err: errors.New("blocked by user")}, store.Profiles(), zap.NewNop())

	err := d.Deliver(context.Background(), &model.Notification{UserID: p.ID, Title: "t", Message: "m"})
	assert.ErrorContains(t, err, "blocked by user")
}

func TestStartText(t *testing.T) {
	assert.Contains(t, StartText(12345), "Your chat id is 12345.")
}
