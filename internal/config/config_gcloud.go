//go:build gcloud

package config

import "errors"

func validatePlatform(cfg *Config) error {
	if cfg.Firebase != nil && cfg.Firebase.UsesEmulator() {
		return errors.New("FIRESTORE_EMULATOR_HOST must not be set on gcloud")
	}
	return nil
}
