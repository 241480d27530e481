package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scamshield/honeypot-backend/internal/models"
)

func TestBuildPrompt_EmptyHistory(t *testing.T) {
	turns := BuildPrompt(nil, "you won a prize!")

	require.Len(t, turns, 2)
	assert.Equal(t, TurnSystem, turns[0].Role)
	assert.Equal(t, PersonaSystemPrompt, turns[0].Content)
	assert.Equal(t, ChatTurn{Role: TurnUser, Content: "you won a prize!"}, turns[1])
}

func TestBuildPrompt_MapsRolesAndPreservesOrder(t *testing.T) {
	history := []*models.Message{
		{ConversationID: "c1", Role: models.RoleScammer, Content: "pay the fee now"},
		{ConversationID: "c1", Role: models.RoleAgent, Content: "ohh which fee?"},
		{ConversationID: "c1", Role: models.RoleScammer, Content: "processing fee, 5000rs"},
	}

	turns := BuildPrompt(history, "send to fraud@ybl")

	require.Len(t, turns, 5)
	assert.Equal(t, TurnSystem, turns[0].Role)
	assert.Equal(t, ChatTurn{Role: TurnUser, Content: "pay the fee now"}, turns[1])
	assert.Equal(t, ChatTurn{Role: TurnAssistant, Content: "ohh which fee?"}, turns[2])
	assert.Equal(t, ChatTurn{Role: TurnUser, Content: "processing fee, 5000rs"}, turns[3])
	assert.Equal(t, ChatTurn{Role: TurnUser, Content: "send to fraud@ybl"}, turns[4])
}

func TestBuildPrompt_SystemHistoryMapsToAssistant(t *testing.T) {
	history := []*models.Message{
		{ConversationID: "c1", Role: models.RoleSystem, Content: "conversation resumed"},
	}

	turns := BuildPrompt(history, "hello?")

	require.Len(t, turns, 3)
	assert.Equal(t, TurnAssistant, turns[1].Role)
}
