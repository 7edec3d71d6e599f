package config

import (
	"errors"
	"fmt"
	"os"
)

func ValidateForRun(cfg *Config) error {
	var errs []error

	if cfg.Firebase == nil || cfg.Firebase.ProjectID == "" {
		errs = append(errs, ErrFirebaseProjectMissing)
	} else if cfg.Firebase.CredentialsFile != "" {
		if _, err := os.Stat(cfg.Firebase.CredentialsFile); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s", ErrCredentialsMissing, cfg.Firebase.CredentialsFile))
		}
	}

	if cfg.Sweep == nil || cfg.Sweep.LookaheadMinutes <= 0 || cfg.Sweep.IntervalMinutes <= 0 {
		errs = append(errs, ErrInvalidSweepWindow)
	}

	if err := validatePlatform(cfg); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %w", errors.Join(errs...))
	}

	return nil
}
