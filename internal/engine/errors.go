package engine

import "errors"

var (
	// ErrApplyFailed indicates every attempt to set the boot order failed.
	ErrApplyFailed = errors.New("failed to apply boot order")

	// ErrVerificationFailed indicates the re-read boot order does not start with a PXE entry.
	ErrVerificationFailed = errors.New("boot order verification failed")

	// ErrNotReady indicates the EFI variable filesystem did not appear in time.
	ErrNotReady = errors.New("EFI variables not available")
)
