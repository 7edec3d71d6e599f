package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/infra/push"
)

func testMessage() domain.PushMessage {
	return domain.PushMessage{
		Title: "Task reminder",
		Body:  "Pay rent is due soon.",
		Data:  map[string]string{"taskId": "task-1", "route": "/notifications"},
	}
}

func allSuccess(n int) *messaging.BatchResponse {
	resp := &messaging.BatchResponse{SuccessCount: n}
	for i := range n {
		resp.Responses = append(resp.Responses, &messaging.SendResponse{Success: true, MessageID: fmt.Sprintf("m-%d", i)})
	}
	return resp
}

func TestDispatch_NoTokens(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := push.NewMockGateway(ctrl)

	result, err := NewDispatcher(gateway, nil).Dispatch(context.Background(), SourceReminder, testMessage(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TokenCount != 0 || result.SuccessCount != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestDispatch_SingleMulticast(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := push.NewMockGateway(ctrl)
	gateway.EXPECT().
		SendEachForMulticast(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
			if len(m.Tokens) != 2 {
				t.Errorf("expected 2 tokens, got %d", len(m.Tokens))
			}
			if m.Notification.Title != "Task reminder" {
				t.Errorf("unexpected title %q", m.Notification.Title)
			}
			if m.Data["taskId"] != "task-1" {
				t.Errorf("unexpected data %v", m.Data)
			}
			return allSuccess(2), nil
		})

	result, err := NewDispatcher(gateway, nil).Dispatch(context.Background(), SourceReminder, testMessage(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != 2 || result.FailureCount != 0 {
		t.Errorf("unexpected counts: %+v", result)
	}
}

func TestDispatch_PerTokenFailureDoesNotFail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := push.NewMockGateway(ctrl)
	gateway.EXPECT().
		SendEachForMulticast(gomock.Any(), gomock.Any()).
		Return(&messaging.BatchResponse{
			SuccessCount: 1,
			FailureCount: 1,
			Responses: []*messaging.SendResponse{
				{Success: false, Error: errors.New("requested entity was not found")},
				{Success: true, MessageID: "m-1"},
			},
		}, nil)

	result, err := NewDispatcher(gateway, nil).Dispatch(context.Background(), SourceEvent, testMessage(), []string{"stale", "fresh"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != 1 || result.FailureCount != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(result.Failures) != 1 || result.Failures[0].Token != "stale" {
		t.Errorf("unexpected failures: %+v", result.Failures)
	}
}

func TestDispatch_AllTokensRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gateway := push.NewMockGateway(ctrl)
	gateway.EXPECT().
		SendEachForMulticast(gomock.Any(), gomock.Any()).
		Return(&messaging.BatchResponse{
			FailureCount: 1,
			Responses:    []*messaging.SendResponse{{Success: false, Error: errors.New("invalid registration")}},
		}, nil)

	result, err := NewDispatcher(gateway, nil).Dispatch(context.Background(), SourceReminder, testMessage(), []string{"bad"})
	if err != nil {
		t.Fatalf("per-token rejection must not fail the call, got %v", err)
	}
	if result.FailureCount != 1 {
		t.Errorf("expected 1 failure, got %+v", result)
	}
}

func TestDispatch_ChunksLargeTokenSets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokens := make([]string, 1201)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("tok-%d", i)
	}

	var sizes []int
	gateway := push.NewMockGateway(ctrl)
	gateway.EXPECT().
		SendEachForMulticast(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
			sizes = append(sizes, len(m.Tokens))
			return allSuccess(len(m.Tokens)), nil
		}).
		Times(3)

	result, err := NewDispatcher(gateway, nil).Dispatch(context.Background(), SourceReminder, testMessage(), tokens)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != 1201 {
		t.Errorf("expected 1201 successes, got %d", result.SuccessCount)
	}
	if len(sizes) != 3 || sizes[0] != 500 || sizes[1] != 500 || sizes[2] != 201 {
		t.Errorf("unexpected chunk sizes %v", sizes)
	}
}

func TestDispatch_GatewayErrors(t *testing.T) {
	gatewayErr := errors.New("fcm unavailable")

	t.Run("no successes fails the call", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		gateway := push.NewMockGateway(ctrl)
		gateway.EXPECT().SendEachForMulticast(gomock.Any(), gomock.Any()).Return(nil, gatewayErr)

		result, err := NewDispatcher(gateway, nil).Dispatch(context.Background(), SourceReminder, testMessage(), []string{"a", "b"})
		if !errors.Is(err, ErrDispatchFailed) || !errors.Is(err, gatewayErr) {
			t.Fatalf("expected wrapped ErrDispatchFailed, got %v", err)
		}
		if result.FailureCount != 2 {
			t.Errorf("expected 2 failures, got %d", result.FailureCount)
		}
	})

	t.Run("partial success is not an error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		tokens := make([]string, 501)
		for i := range tokens {
			tokens[i] = fmt.Sprintf("tok-%d", i)
		}

		gateway := push.NewMockGateway(ctrl)
		gomock.InOrder(
			gateway.EXPECT().SendEachForMulticast(gomock.Any(), gomock.Any()).Return(allSuccess(500), nil),
			gateway.EXPECT().SendEachForMulticast(gomock.Any(), gomock.Any()).Return(nil, gatewayErr),
		)

		result, err := NewDispatcher(gateway, nil).Dispatch(context.Background(), SourceReminder, testMessage(), tokens)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.SuccessCount != 500 || result.FailureCount != 1 {
			t.Errorf("unexpected counts: %+v", result)
		}
	})
}

func TestUnregisteredTokens(t *testing.T) {
	r := &Result{Failures: []TokenFailure{
		{Token: "a", Unregistered: true},
		{Token: "b"},
		{Token: "c", Unregistered: true},
	}}

	got := r.UnregisteredTokens()
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("unexpected tokens %v", got)
	}
}
