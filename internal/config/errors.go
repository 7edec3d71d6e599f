package config

import "errors"

var (
	ErrInvalidRedisDB         = errors.New("REDIS_DB must be a valid integer")
	ErrFirebaseProjectMissing = errors.New("FIREBASE_PROJECT_ID or GOOGLE_CLOUD_PROJECT is required")
	ErrInvalidSweepWindow     = errors.New("sweep lookahead and interval must be positive")
	ErrCredentialsMissing     = errors.New("FIREBASE_CREDENTIALS_FILE does not exist")
)
