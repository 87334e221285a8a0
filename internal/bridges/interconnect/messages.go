package interconnect

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AnnounceMessage is the wire format for device announcements.
//
// Components and Systems name kind labels; each must have a factory in the
// kind registry or the announce is rejected.
type AnnounceMessage struct {
	Address    string   `json:"address"`
	Name       string   `json:"name,omitempty"`
	Components []string `json:"components,omitempty"`
	Systems    []string `json:"systems,omitempty"`
}

// CommandMessage is the wire format for device commands. Params is passed
// through to the handling system uninterpreted.
type CommandMessage struct {
	Name   string          `json:"name"`
	Params json.RawMessage `json:"params,omitempty"`
}

// parseAnnounce decodes and validates an announce payload.
func parseAnnounce(payload []byte) (AnnounceMessage, error) {
	var msg AnnounceMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg, fmt.Errorf("%w: %w", ErrBadAnnounce, err)
	}
	if msg.Address == "" {
		return msg, fmt.Errorf("%w: missing address", ErrBadAnnounce)
	}
	return msg, nil
}

// parseCommand decodes and validates a command payload.
func parseCommand(payload []byte) (CommandMessage, error) {
	var msg CommandMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg, fmt.Errorf("%w: %w", ErrBadCommand, err)
	}
	if msg.Name == "" {
		return msg, fmt.Errorf("%w: missing command name", ErrBadCommand)
	}
	return msg, nil
}

// addressFromCommandTopic extracts the device address from a command topic
// of the form {prefix}/device/{address}/command.
func addressFromCommandTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) < 4 || parts[len(parts)-1] != "command" || parts[len(parts)-3] != "device" {
		return "", fmt.Errorf("%w: unexpected topic %q", ErrBadCommand, topic)
	}
	addr := parts[len(parts)-2]
	if addr == "" {
		return "", fmt.Errorf("%w: empty address in topic %q", ErrBadCommand, topic)
	}
	return addr, nil
}
