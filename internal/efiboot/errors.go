package efiboot

import "errors"

var (
	// ErrUnrecognizedReport indicates the text does not look like a boot manager report.
	ErrUnrecognizedReport = errors.New("unrecognized boot manager report")

	// ErrReadOnly indicates the boot manager cannot change the boot order.
	ErrReadOnly = errors.New("boot manager is read-only")
)
