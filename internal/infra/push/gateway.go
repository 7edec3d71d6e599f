package push

import (
	"context"

	"firebase.google.com/go/v4/messaging"
)

//go:generate mockgen -source=gateway.go -destination=gateway_mock.go -package=push

// MaxTokensPerMulticast is the FCM limit on tokens in one multicast request.
const MaxTokensPerMulticast = 500

// Gateway sends one multicast request. *messaging.Client satisfies it.
type Gateway interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

type dryRunGateway struct {
	client *messaging.Client
}

// NewGateway returns the live client, or one that validates messages without
// delivering them when dryRun is set.
func NewGateway(client *messaging.Client, dryRun bool) Gateway {
	if dryRun {
		return &dryRunGateway{client: client}
	}
	return client
}

func (g *dryRunGateway) SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	return g.client.SendEachForMulticastDryRun(ctx, message)
}
