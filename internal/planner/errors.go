package planner

import "errors"

var (
	// ErrNoPxeEntryFound indicates the snapshot has no PXE boot entry.
	ErrNoPxeEntryFound = errors.New("no PXE boot entry found")

	// ErrNoBootOrderFound indicates the snapshot has an empty or unparsable BootOrder.
	ErrNoBootOrderFound = errors.New("no boot order found")
)
