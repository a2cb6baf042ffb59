// Package planner decides how the UEFI boot order should look.
//
// The planner works on an immutable Snapshot of the firmware boot entries and
// produces a deterministic Plan. It performs no I/O: reading the firmware and
// applying the result belong to the engine.
//
// Key responsibilities:
//   - Classify boot entries by description (PXE IPv4, PXE IPv6, other PXE,
//     hard drive, other)
//   - Decide whether the current order already boots from the network first
//   - Compute the replacement order: PXE entries, then the running OS, then
//     everything else except hard-drive entries
package planner
