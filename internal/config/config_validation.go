// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

package config

import (
	"fmt"
	"time"
)

// Defaults applied by validate when the corresponding value is unset.
const (
	defaultEnvironment     = EnvironmentLocal
	defaultSessionDuration = 12 * time.Hour
	defaultSweepInterval   = time.Minute
	defaultRequestTimeout  = 30 * time.Second
	defaultTokenIssuer     = "pii-vault"
	defaultLocalDSN        = "pii_vault.db"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup, filling in defaults
// for optional values.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.EmailIndexKey == "" {
		return ErrMissingEmailIndexKey
	}

	if cfg.App.TokenSignKey == "" {
		return ErrMissingTokenSignKey
	}

	if cfg.Storage.Environment == "" {
		cfg.Storage.Environment = defaultEnvironment
	}
	if cfg.Storage.Environment != EnvironmentLocal && cfg.Storage.Environment != EnvironmentHosted {
		return fmt.Errorf("%w: %q", ErrUnknownEnvironment, cfg.Storage.Environment)
	}

	if cfg.Storage.DB.DSN == "" {
		// the hosted environment cannot guess its connection string
		if cfg.Storage.Environment == EnvironmentHosted {
			return ErrMissingDSN
		}
		cfg.Storage.DB.DSN = defaultLocalDSN
	}

	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = defaultTokenIssuer
	}

	if cfg.App.SessionDuration == 0 {
		cfg.App.SessionDuration = defaultSessionDuration
	}
	if cfg.Workers.SweepInterval == 0 {
		cfg.Workers.SweepInterval = defaultSweepInterval
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}

	return nil
}
