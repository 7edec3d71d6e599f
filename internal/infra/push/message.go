package push

import (
	"firebase.google.com/go/v4/messaging"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
)

// NewMulticast renders a push message for a batch of device tokens.
func NewMulticast(msg domain.PushMessage, tokens []string) *messaging.MulticastMessage {
	data := make(map[string]string, len(msg.Data))
	for k, v := range msg.Data {
		data[k] = v
	}

	return &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   data,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
	}
}

// Chunk splits tokens into batches the gateway accepts.
func Chunk(tokens []string, size int) [][]string {
	if size <= 0 {
		size = MaxTokensPerMulticast
	}

	chunks := make([][]string, 0, (len(tokens)+size-1)/size)
	for start := 0; start < len(tokens); start += size {
		end := min(start+size, len(tokens))
		chunks = append(chunks, tokens[start:end])
	}
	return chunks
}
