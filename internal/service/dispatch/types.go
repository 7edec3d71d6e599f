package dispatch

import "errors"

var ErrDispatchFailed = errors.New("push dispatch failed")

type Source string

const (
	SourceReminder Source = "reminder"
	SourceEvent    Source = "event"
)

func (s Source) String() string {
	return string(s)
}

type TokenFailure struct {
	Token        string `json:"token"`
	Error        string `json:"error"`
	Unregistered bool   `json:"unregistered"`
}

type Result struct {
	TokenCount   int            `json:"token_count"`
	SuccessCount int            `json:"success_count"`
	FailureCount int            `json:"failure_count"`
	Failures     []TokenFailure `json:"failures,omitempty"`
}

// UnregisteredTokens lists tokens the gateway reported as no longer valid.
func (r *Result) UnregisteredTokens() []string {
	tokens := make([]string, 0)
	for _, f := range r.Failures {
		if f.Unregistered {
			tokens = append(tokens, f.Token)
		}
	}
	return tokens
}
