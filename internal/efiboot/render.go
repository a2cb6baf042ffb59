package efiboot

import (
	"fmt"
	"strings"

	"github.com/danieljhkim/pxefirst/internal/planner"
)

// Render formats a snapshot the way efibootmgr prints it.
func Render(s *planner.Snapshot) string {
	var b strings.Builder

	if s.BootNext != "" {
		fmt.Fprintf(&b, "BootNext: %s\n", s.BootNext)
	}
	if s.BootCurrent != "" {
		fmt.Fprintf(&b, "BootCurrent: %s\n", s.BootCurrent)
	}
	if s.Timeout != "" {
		fmt.Fprintf(&b, "Timeout: %s\n", s.Timeout)
	}
	fmt.Fprintf(&b, "BootOrder: %s\n", planner.FormatOrder(s.BootOrder))

	for _, e := range s.Entries {
		active := ""
		if e.Active {
			active = "*"
		}
		fmt.Fprintf(&b, "Boot%s%s %s", e.ID, active, e.Description)
		if e.DevicePath != "" {
			fmt.Fprintf(&b, "\t%s", e.DevicePath)
		}
		b.WriteString("\n")
	}

	return b.String()
}
