package token

import (
	"context"
	"log/slog"

	"github.com/KasumiMercury/primind-reminder-dispatch/internal/domain"
)

type Resolver struct {
	repo domain.TokenRepository
}

func NewResolver(repo domain.TokenRepository) *Resolver {
	return &Resolver{
		repo: repo,
	}
}

// Resolve returns the user's registered device tokens as a set. A user with
// no registrations yields an empty slice and no error.
func (r *Resolver) Resolve(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, domain.ErrMissingOwner
	}

	registered, err := r.repo.ListTokens(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve device tokens",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	tokens := uniqueTokens(registered)

	slog.DebugContext(ctx, "resolved device tokens",
		slog.String("user_id", userID),
		slog.Int("token_count", len(tokens)),
	)

	return tokens, nil
}

func uniqueTokens(registered []string) []string {
	tokens := make([]string, 0, len(registered))
	seen := make(map[string]struct{}, len(registered))
	for _, t := range registered {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	return tokens
}
