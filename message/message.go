package message

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Command names.
const (
	CommandUserQuery        = "userQuery"
	CommandAssistantMessage = "assistantMessage"
	CommandLoadingState     = "loadingState"
	CommandError            = "error"
)

// ErrUnknownCommand is returned by Decode for an unrecognized command.
var ErrUnknownCommand = errors.New("unknown command")

// Message is any panel message.
type Message interface {
	// Command returns the wire name of the message kind.
	Command() string
}

// UserQuery is text submitted from the panel.
type UserQuery struct {
	Text string `json:"text" jsonschema:"description=Prompt text to send"`
}

// AssistantMessage is a reply rendered in the panel.
type AssistantMessage struct {
	Text string `json:"text"`
}

// LoadingState toggles the panel's busy indicator.
type LoadingState struct {
	Loading bool   `json:"loading"`
	Message string `json:"message,omitempty"`
}

// Error is a failure shown in the panel.
type Error struct {
	Message string `json:"message"`
}

func (UserQuery) Command() string        { return CommandUserQuery }
func (AssistantMessage) Command() string { return CommandAssistantMessage }
func (LoadingState) Command() string     { return CommandLoadingState }
func (Error) Command() string            { return CommandError }

// Envelope is the minimal shape shared by every wire message.
type Envelope struct {
	Command string `json:"command"`
}

// Encode renders m in wire form.
func Encode(m Message) ([]byte, error) {
	var payload any
	switch v := m.(type) {
	case UserQuery:
		payload = struct {
			Envelope
			UserQuery
		}{Envelope{v.Command()}, v}
	case AssistantMessage:
		payload = struct {
			Envelope
			AssistantMessage
		}{Envelope{v.Command()}, v}
	case LoadingState:
		payload = struct {
			Envelope
			LoadingState
		}{Envelope{v.Command()}, v}
	case Error:
		payload = struct {
			Envelope
			Error
		}{Envelope{v.Command()}, v}
	case nil:
		return nil, fmt.Errorf("encode: nil message")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, m.Command())
	}
	return json.Marshal(payload)
}

// Decode parses a wire message.
func Decode(data []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	var (
		m   Message
		err error
	)
	switch env.Command {
	case CommandUserQuery:
		var v UserQuery
		err = json.Unmarshal(data, &v)
		m = v
	case CommandAssistantMessage:
		var v AssistantMessage
		err = json.Unmarshal(data, &v)
		m = v
	case CommandLoadingState:
		var v LoadingState
		err = json.Unmarshal(data, &v)
		m = v
	case CommandError:
		var v Error
		err = json.Unmarshal(data, &v)
		m = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, env.Command)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Command, err)
	}
	return m, nil
}
