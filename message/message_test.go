package message

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_WireForm(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{"user query", UserQuery{Text: "hi"}, `{"command":"userQuery","text":"hi"}`},
		{"loading on", LoadingState{Loading: true}, `{"command":"loadingState","loading":true}`},
		{"loading off", LoadingState{}, `{"command":"loadingState","loading":false}`},
		{"error", Error{Message: "boom"}, `{"command":"error","message":"boom"}`},
		{"assistant", AssistantMessage{Text: "ok"}, `{"command":"assistantMessage","text":"ok"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestDecode(t *testing.T) {
	m, err := Decode([]byte(`{"command":"userQuery","text":"explain this"}`))
	require.NoError(t, err)
	assert.Equal(t, UserQuery{Text: "explain this"}, m)

	m, err = Decode([]byte(`{"command":"loadingState","loading":true,"message":"sending"}`))
	require.NoError(t, err)
	assert.Equal(t, LoadingState{Loading: true, Message: "sending"}, m)
}

func TestDecode_UnknownCommand(t *testing.T) {
	_, err := Decode([]byte(`{"command":"screenInfo","height":900}`))
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = Decode([]byte(`{"text":"no command"}`))
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte(`{"command":`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownCommand)

	_, err = Decode([]byte(`{"command":"userQuery","text":42}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode userQuery")
}

func TestSchema(t *testing.T) {
	s := Schema()
	require.Len(t, s.OneOf, 4)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	variants, ok := doc["oneOf"].([]any)
	require.True(t, ok)

	var commands []string
	for _, v := range variants {
		props := v.(map[string]any)["properties"].(map[string]any)
		cmd := props["command"].(map[string]any)
		commands = append(commands, cmd["const"].(string))
		assert.Contains(t, v.(map[string]any)["required"], "command")
	}
	assert.Equal(t, []string{CommandUserQuery, CommandAssistantMessage, CommandLoadingState, CommandError}, commands)
}
