package common

import (
	"fmt"

	"github.com/caarlos0/env/v10"

	"github.com/marisj/financials/client"
)

// NewClient returns an EDGAR client identified by the EDGAR_UA environment
// variable, which SEC requires to name the requesting party.
func NewClient() (*client.Client, error) {
	cfg := struct {
		UA string `env:"EDGAR_UA,notEmpty"`
	}{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse financials envs: %w", err)
	}
	return client.New().WithUserAgent(cfg.UA), nil
}
