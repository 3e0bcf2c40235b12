package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageTypeIsAction(t *testing.T) {
	actions := []MessageType{
		MessageTypeGoalCreate, MessageTypeGoalUpdate, MessageTypeGoalDelete,
		MessageTypeProgressUpdate, MessageTypeCommentAdd, MessageTypeReactionAdd,
	}
	for _, mt := range actions {
		assert.True(t, mt.IsAction(), mt.String())
	}

	assert.False(t, MessageTypeAuthenticate.IsAction())
	assert.False(t, MessageTypeAuthenticated.IsAction())
	assert.False(t, MessageTypeError.IsAction())
	assert.False(t, MessageTypeGoalCreated.IsAction())
}

func TestDecodePayloadRejectsEmpty(t *testing.T) {
	var payload AuthenticatePayload
	assert.Error(t, decodePayload(nil, &payload))
	assert.Error(t, decodePayload([]byte{}, &payload))
}

func TestEncodeMessageShape(t *testing.T) {
	data, err := encodeMessage(MessageTypeError, ErrorPayload{Message: "nope"})
	require.NoError(t, err)

	var decoded struct {
		Type string `json:"type"`
		Data struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "error", decoded.Type)
	assert.Equal(t, "nope", decoded.Data.Message)
}

func TestInboundMessageDecodes(t *testing.T) {
	raw := []byte(`{"type":"goal.create","data":{"goalData":{"title":"Read","type":"one-time"}}}`)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, MessageTypeGoalCreate, msg.Type)

	var payload GoalCreatePayload
	require.NoError(t, decodePayload(msg.Data, &payload))
	assert.Equal(t, "Read", payload.GoalData.Title)
	assert.Equal(t, "one-time", payload.GoalData.Type)
}
