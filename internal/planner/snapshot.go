package planner

import "strings"

// BootEntry is a firmware boot record as reported by the boot manager.
type BootEntry struct {
	// ID is the 4-hex-digit entry number, upper case (e.g. "0001")
	ID string `json:"id"`

	// Description is the free-text label of the entry
	Description string `json:"description"`

	// Active reports whether the entry is marked active ("*")
	Active bool `json:"active"`

	// DevicePath is the device path text, only present in verbose reports
	DevicePath string `json:"device_path,omitempty"`
}

// Category returns the policy class of the entry.
func (e BootEntry) Category() Category {
	return Classify(e.Description)
}

// Snapshot is a read-only view of the firmware boot configuration.
type Snapshot struct {
	// Entries are the boot entries in report order
	Entries []BootEntry `json:"entries"`

	// BootOrder is the current firmware boot order
	BootOrder []string `json:"boot_order"`

	// BootCurrent is the entry used for this boot, empty when unknown
	BootCurrent string `json:"boot_current,omitempty"`

	// BootNext is the one-shot next boot entry, empty when unset
	BootNext string `json:"boot_next,omitempty"`

	// Timeout is the raw firmware menu timeout, e.g. "1 seconds"
	Timeout string `json:"timeout,omitempty"`
}

// Entry returns the entry with the given id.
func (s *Snapshot) Entry(id string) (BootEntry, bool) {
	id = strings.ToUpper(id)
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return BootEntry{}, false
}

// Category returns the category of id. Ids without an entry are Other.
func (s *Snapshot) Category(id string) Category {
	if e, ok := s.Entry(id); ok {
		return e.Category()
	}
	return Other
}

// PXEEntries returns the PXE family entries in report order.
func (s *Snapshot) PXEEntries() []BootEntry {
	var out []BootEntry
	for _, e := range s.Entries {
		if e.Category().IsPXE() {
			out = append(out, e)
		}
	}
	return out
}

// HasBootCurrent reports whether the booted entry is known.
func (s *Snapshot) HasBootCurrent() bool {
	return s.BootCurrent != ""
}

// sequence returns the ids in planning order: BootOrder first, then listed
// entries that are missing from BootOrder.
func (s *Snapshot) sequence() []string {
	seen := make(map[string]bool, len(s.BootOrder)+len(s.Entries))
	seq := make([]string, 0, len(s.BootOrder)+len(s.Entries))
	for _, id := range s.BootOrder {
		id = strings.ToUpper(id)
		if seen[id] {
			continue
		}
		seen[id] = true
		seq = append(seq, id)
	}
	for _, e := range s.Entries {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		seq = append(seq, e.ID)
	}
	return seq
}

// FormatOrder renders ids the way efibootmgr -o expects them.
func FormatOrder(ids []string) string {
	return strings.Join(ids, ",")
}
