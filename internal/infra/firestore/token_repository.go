package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
)

const (
	userTokensCollection = "user_tokens"
	tokensSubcollection  = "tokens"
)

type tokenRepository struct {
	client *firestore.Client
}

// NewTokenRepository lists user_tokens/{userId}/tokens. Each document id is a
// registered device token.
func NewTokenRepository(client *firestore.Client) domain.TokenRepository {
	return &tokenRepository{
		client: client,
	}
}

func (r *tokenRepository) ListTokens(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, domain.ErrMissingOwner
	}

	snaps, err := r.client.Collection(userTokensCollection).
		Doc(userID).
		Collection(tokensSubcollection).
		Select().
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens for user %s: %w", userID, err)
	}

	tokens := make([]string, 0, len(snaps))
	for _, snap := range snaps {
		tokens = append(tokens, snap.Ref.ID)
	}

	return tokens, nil
}

// Ping issues a single-document read to confirm Firestore is reachable.
func Ping(ctx context.Context, client *firestore.Client) error {
	iter := client.Collection(userTokensCollection).Limit(1).Documents(ctx)
	defer iter.Stop()

	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestore unreachable: %w", err)
	}
	return nil
}
