package store

import (
	"ipvault/internal/platform/logger"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithTxRunner injects a prebuilt sql seam, used by tests and the CLI to skip pg boot
func WithTxRunner(tx TxRunner) Option {
	return func(s *Store) error {
		s.PG = tx
		return nil
	}
}
