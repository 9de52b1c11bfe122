package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ValidationError marks malformed caller input, rejected before any network
// call is issued.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the fields every analysis variant needs.
func (c Config) Validate() error {
	if c.Date == "" {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	if _, err := time.Parse("2006-01-02", c.Date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if c.AnchorHour < 0 || c.AnchorHour > 23 {
		return &ValidationError{Field: "anchor-hour", Reason: "must be in [0,23]"}
	}
	if c.TxBatch == 0 {
		return &ValidationError{Field: "tx-batch", Reason: "must be greater than zero"}
	}
	if c.LogBatch == 0 {
		return &ValidationError{Field: "log-batch", Reason: "must be greater than zero"}
	}
	if c.Wallet == "" {
		return &ValidationError{Field: "wallet", Reason: "required"}
	}
	if !common.IsHexAddress(c.Wallet) {
		return &ValidationError{Field: "wallet", Reason: "malformed address"}
	}
	return nil
}

// ValidateContract additionally checks the contract address, required by the
// analyze and events variants.
func (c Config) ValidateContract() error {
	if c.Contract == "" {
		return &ValidationError{Field: "contract", Reason: "required"}
	}
	if !common.IsHexAddress(c.Contract) {
		return &ValidationError{Field: "contract", Reason: "malformed address"}
	}
	return nil
}
