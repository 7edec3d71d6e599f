package push

import (
	"fmt"
	"testing"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
)

func TestChunk(t *testing.T) {
	makeTokens := func(n int) []string {
		tokens := make([]string, n)
		for i := range tokens {
			tokens[i] = fmt.Sprintf("tok-%d", i)
		}
		return tokens
	}

	tests := []struct {
		name      string
		count     int
		size      int
		wantSizes []int
	}{
		{name: "empty", count: 0, size: 500, wantSizes: []int{}},
		{name: "single chunk", count: 3, size: 500, wantSizes: []int{3}},
		{name: "exact boundary", count: 500, size: 500, wantSizes: []int{500}},
		{name: "spills over", count: 1201, size: 500, wantSizes: []int{500, 500, 201}},
		{name: "non-positive size uses limit", count: 501, size: 0, wantSizes: []int{500, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := makeTokens(tt.count)
			chunks := Chunk(tokens, tt.size)

			if len(chunks) != len(tt.wantSizes) {
				t.Fatalf("expected %d chunks, got %d", len(tt.wantSizes), len(chunks))
			}

			seen := 0
			for i, chunk := range chunks {
				if len(chunk) != tt.wantSizes[i] {
					t.Errorf("chunk %d: expected %d tokens, got %d", i, tt.wantSizes[i], len(chunk))
				}
				for _, tok := range chunk {
					if tok != tokens[seen] {
						t.Errorf("token order broken at %d: got %s", seen, tok)
					}
					seen++
				}
			}
		})
	}
}

func TestNewMulticast(t *testing.T) {
	msg := domain.PushMessage{
		Title: "Task reminder",
		Body:  "Pay rent is due soon.",
		Data:  map[string]string{"taskId": "t1", "route": "/notifications"},
	}

	mm := NewMulticast(msg, []string{"a", "b"})

	if mm.Notification.Title != msg.Title || mm.Notification.Body != msg.Body {
		t.Errorf("unexpected notification: %+v", mm.Notification)
	}
	if len(mm.Tokens) != 2 {
		t.Errorf("expected 2 tokens, got %d", len(mm.Tokens))
	}
	if mm.Data["taskId"] != "t1" || mm.Data["route"] != "/notifications" {
		t.Errorf("unexpected data: %v", mm.Data)
	}

	mm.Data["taskId"] = "mutated"
	if msg.Data["taskId"] != "t1" {
		t.Error("multicast data must not alias the source message")
	}
}
