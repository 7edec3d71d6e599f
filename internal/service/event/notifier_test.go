package event

import (
	"context"
	"errors"
	"slices"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/infra/push"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/service/dispatch"
	"github.com/KasumiMercury/primind-reminder-dispatch/internal/service/token"
)

func createTestNotifier(tokens domain.TokenRepository, gateway push.Gateway) *Notifier {
	return NewNotifier(token.NewResolver(tokens), dispatch.NewDispatcher(gateway, nil), nil)
}

func TestNotify_SendsOneMulticast(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenRepo := domain.NewMockTokenRepository(ctrl)
	tokenRepo.EXPECT().ListTokens(gomock.Any(), "user-1").Return([]string{"tok-a", "tok-b"}, nil)

	gateway := push.NewMockGateway(ctrl)
	gateway.EXPECT().
		SendEachForMulticast(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
			if !slices.Equal(m.Tokens, []string{"tok-a", "tok-b"}) {
				t.Errorf("unexpected tokens %v", m.Tokens)
			}
			if m.Notification.Title != "X" || m.Notification.Body != "Y" {
				t.Errorf("unexpected notification %+v", m.Notification)
			}
			if m.Data["route"] != "/notifications" || m.Data["taskId"] != "" {
				t.Errorf("unexpected data %v", m.Data)
			}
			return &messaging.BatchResponse{
				SuccessCount: 2,
				Responses: []*messaging.SendResponse{
					{Success: true, MessageID: "m-1"},
					{Success: true, MessageID: "m-2"},
				},
			}, nil
		}).
		Times(1)

	result, err := createTestNotifier(tokenRepo, gateway).Notify(context.Background(), &domain.NotificationEvent{
		UserID:    "user-1",
		MessageID: "msg-1",
		Title:     "X",
		Body:      "Y",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != OutcomeSent || result.SuccessCount != 2 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestNotify_NoTokensCompletesWithoutSending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenRepo := domain.NewMockTokenRepository(ctrl)
	tokenRepo.EXPECT().ListTokens(gomock.Any(), "user-1").Return([]string{}, nil)

	result, err := createTestNotifier(tokenRepo, push.NewMockGateway(ctrl)).Notify(context.Background(), &domain.NotificationEvent{
		UserID:    "user-1",
		MessageID: "msg-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != OutcomeNoTokens {
		t.Errorf("expected no_tokens, got %s", result.Outcome)
	}
}

func TestNotify_Failures(t *testing.T) {
	t.Run("missing owner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		_, err := createTestNotifier(domain.NewMockTokenRepository(ctrl), push.NewMockGateway(ctrl)).
			Notify(context.Background(), &domain.NotificationEvent{MessageID: "msg-1"})
		if !errors.Is(err, domain.ErrMissingEventOwner) {
			t.Errorf("expected ErrMissingEventOwner, got %v", err)
		}
	})

	t.Run("token lookup error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		lookupErr := errors.New("unavailable")
		tokenRepo := domain.NewMockTokenRepository(ctrl)
		tokenRepo.EXPECT().ListTokens(gomock.Any(), "user-1").Return(nil, lookupErr)

		result, err := createTestNotifier(tokenRepo, push.NewMockGateway(ctrl)).
			Notify(context.Background(), &domain.NotificationEvent{UserID: "user-1", MessageID: "msg-1"})
		if !errors.Is(err, lookupErr) {
			t.Fatalf("expected lookup error, got %v", err)
		}
		if result.Outcome != OutcomeFailed {
			t.Errorf("expected failed outcome, got %s", result.Outcome)
		}
	})

	t.Run("gateway error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		tokenRepo := domain.NewMockTokenRepository(ctrl)
		tokenRepo.EXPECT().ListTokens(gomock.Any(), "user-1").Return([]string{"tok-a"}, nil)
		gateway := push.NewMockGateway(ctrl)
		gateway.EXPECT().SendEachForMulticast(gomock.Any(), gomock.Any()).Return(nil, errors.New("fcm unavailable"))

		_, err := createTestNotifier(tokenRepo, gateway).
			Notify(context.Background(), &domain.NotificationEvent{UserID: "user-1", MessageID: "msg-1"})
		if !errors.Is(err, dispatch.ErrDispatchFailed) {
			t.Errorf("expected ErrDispatchFailed, got %v", err)
		}
	})
}

func TestIgnore(t *testing.T) {
	n := NewNotifier(nil, nil, nil)

	result := n.Ignore(context.Background(), "user-1", "msg-1")
	if result.Outcome != OutcomeIgnored || result.MessageID != "msg-1" {
		t.Errorf("unexpected result %+v", result)
	}
}
