package planner

import "strings"

// Category is the policy class of a boot entry, derived from its description.
type Category int

const (
	Other Category = iota
	PxeIPv4
	PxeIPv6
	PxeOther
	HardDrive
)

var categoryNames = map[Category]string{
	Other:     "other",
	PxeIPv4:   "pxe-ipv4",
	PxeIPv6:   "pxe-ipv6",
	PxeOther:  "pxe",
	HardDrive: "hard-drive",
}

// String returns the short name used in logs and CLI output.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// MarshalText lets categories appear by name in JSON output.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// IsPXE reports whether c belongs to the PXE family.
func (c Category) IsPXE() bool {
	return c == PxeIPv4 || c == PxeIPv6 || c == PxeOther
}

// Classify maps a boot entry description to its Category.
// Matching is case-insensitive. HTTP boot entries that also mention PXE are
// not treated as PXE.
func Classify(description string) Category {
	d := strings.ToLower(description)

	if strings.Contains(d, "pxe") && !strings.Contains(d, "http") {
		switch {
		case strings.Contains(d, "ipv4") || strings.Contains(d, "ip4"):
			return PxeIPv4
		case strings.Contains(d, "ipv6") || strings.Contains(d, "ip6"):
			return PxeIPv6
		default:
			return PxeOther
		}
	}

	if strings.Contains(d, "hard drive") {
		return HardDrive
	}

	return Other
}
