package domain

import "context"

//go:generate mockgen -source=token_repository.go -destination=token_repository_mock.go -package=domain

type TokenRepository interface {
	ListTokens(ctx context.Context, userID string) ([]string, error)
}
