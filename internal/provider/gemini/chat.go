package gemini

import (
	"context"
	"fmt"
	"strings"
)

type ChatMessage struct {
	// Role is "user" or "model".
	Role string `json:"role"`
	Text string `json:"text"`
}

// Chat answers message in the context of the earlier turns in history.
func (c *Client) Chat(ctx context.Context, history []ChatMessage, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("message is required")
	}
	contents := make([]content, 0, len(history)+1)
	for _, m := range history {
		role := m.Role
		if role != "model" {
			role = "user"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: m.Text}}})
	}
	contents = append(contents, content{Role: "user", Parts: []part{{Text: message}}})

	text, err := c.generate(ctx, "chat", generateRequest{
		Contents:          contents,
		SystemInstruction: &content{Parts: []part{{Text: chatInstruction}}},
	})
	if err != nil {
		return "", err
	}
	reply := strings.TrimSpace(text)
	if reply == "" {
		return "", &EstimateParseError{Op: "chat", Reason: "empty reply"}
	}
	return reply, nil
}
