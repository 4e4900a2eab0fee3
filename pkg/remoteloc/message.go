package remoteloc

import (
	"github.com/goccy/go-json"

	"github.com/vango-dev/urlstore/internal/errors"
)

// MessageType identifies a message on the location socket.
type MessageType string

const (
	// TypeLocation carries a full snapshot of the browser location.
	TypeLocation MessageType = "location"

	// TypeHashChange reports a fragment change made by the user.
	TypeHashChange MessageType = "hashchange"

	// TypeReplaceFragment asks the browser to replace the fragment
	// without creating a history entry.
	TypeReplaceFragment MessageType = "replaceFragment"

	// TypeClearQuery asks the browser to drop the search component.
	TypeClearQuery MessageType = "clearQuery"
)

// Message is one frame on the location socket. Field names follow the
// browser's window.location.
type Message struct {
	Type     MessageType `json:"type"`
	Protocol string      `json:"protocol,omitempty"`
	Host     string      `json:"host,omitempty"`
	Path     string      `json:"pathname,omitempty"`
	Query    string      `json:"search,omitempty"`
	Fragment string      `json:"hash,omitempty"`
}

// DecodeMessage parses an inbound frame. Only TypeLocation and
// TypeHashChange are accepted from the browser.
func DecodeMessage(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, errors.New("E160").WithInput(string(data), -1).Wrap(err)
	}
	switch msg.Type {
	case TypeLocation, TypeHashChange:
		return msg, nil
	case "":
		return Message{}, errors.New("E160").
			WithInput(string(data), -1).
			WithDetail("The message has no type.")
	default:
		return Message{}, errors.New("E160").
			WithInput(string(data), -1).
			WithDetail("Unknown message type " + string(msg.Type) + ".")
	}
}

// Encode serializes msg for the socket.
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}
