package handlers

import (
	"context"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartHandlerSendsWelcome(t *testing.T) {
	deps, fake := testDeps(t)
	handle := NewStartHandler(deps)

	handle(context.Background(), nil, commandUpdate(100, 7, "alice", "/start"))

	require.Len(t, fake.Messages, 1)
	assert.Equal(t, int64(100), fake.Messages[0].ChatID)
	assert.Equal(t, deps.Config.Messages.Welcome, fake.Messages[0].Text)
}

func TestStartHandlerIgnoresMalformedUpdate(t *testing.T) {
	deps, fake := testDeps(t)
	handle := NewStartHandler(deps)

	handle(context.Background(), nil, &models.Update{ID: 9})

	assert.Empty(t, fake.Messages)
}
