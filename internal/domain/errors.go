package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotDeployed is returned when a unit has no ledger record
	ErrNotDeployed = errors.New("not deployed")

	// ErrUnknownUnit is returned when no artifact exists for a unit name
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrMissingLibrary is returned when a link slot has no bound library address
	ErrMissingLibrary = errors.New("missing library binding")

	// ErrUnknownSender is returned when a signer name is not configured
	ErrUnknownSender = errors.New("unknown sender")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidPlan is returned when a deployment plan fails validation
	ErrInvalidPlan = errors.New("invalid deployment plan")

	// ErrNotInitialized is returned when the deployer is used before Initialize
	ErrNotInitialized = errors.New("deployer not initialized")

	// ErrAlreadyInitialized is returned on a second Initialize
	ErrAlreadyInitialized = errors.New("deployer already initialized")

	// ErrFinalized is returned when the deployer is used after Finalize
	ErrFinalized = errors.New("deployer already finalized")

	// ErrCancelled is returned when the user declines to broadcast
	ErrCancelled = errors.New("cancelled by user")
)

// NotDeployedError wraps ErrNotDeployed with the unit name.
func NotDeployedError(name string) error {
	return fmt.Errorf("%s has not yet been deployed: %w", name, ErrNotDeployed)
}

// ArtifactParseError reports an artifact file that could not be read or decoded.
// It is logged and the file is skipped.
type ArtifactParseError struct {
	Path string
	Err  error
}

func (e *ArtifactParseError) Error() string {
	return fmt.Sprintf("failed to parse artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactParseError) Unwrap() error { return e.Err }

// LedgerLoadError reports a ledger file that exists but could not be loaded.
type LedgerLoadError struct {
	Network string
	Path    string
	Err     error
}

func (e *LedgerLoadError) Error() string {
	return fmt.Sprintf("failed to load ledger for network %s (%s): %v", e.Network, e.Path, e.Err)
}

func (e *LedgerLoadError) Unwrap() error { return e.Err }

// DeploymentTransactionError reports a failed deployment submission or confirmation.
type DeploymentTransactionError struct {
	Unit   string
	TxHash string
	Err    error
}

func (e *DeploymentTransactionError) Error() string {
	if e.TxHash != "" {
		return fmt.Sprintf("deployment of %s failed (tx %s): %v", e.Unit, e.TxHash, e.Err)
	}
	return fmt.Sprintf("deployment of %s failed: %v", e.Unit, e.Err)
}

func (e *DeploymentTransactionError) Unwrap() error { return e.Err }

// CyclicDependencyError is returned when library link references form a cycle.
type CyclicDependencyError struct {
	Path []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic library dependency: %s", strings.Join(e.Path, " -> "))
}

// UnknownUnitError carries close matches for an unknown unit name.
type UnknownUnitError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownUnitError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no artifact found for unit %q", e.Name)
	}
	return fmt.Sprintf("no artifact found for unit %q, did you mean: %s?",
		e.Name, strings.Join(e.Suggestions, ", "))
}

func (e *UnknownUnitError) Unwrap() error { return ErrUnknownUnit }
