// Package efiboot reads and writes the firmware boot configuration through
// the efibootmgr command line tool.
//
// The report parser understands both plain and verbose (-v) efibootmgr
// output:
//
//	BootCurrent: 0003
//	Timeout: 1 seconds
//	BootOrder: 0003,0001,0002,0004
//	Boot0001* PXE IPv6 NIC
//	Boot0003* Windows Boot Manager	HD(1,GPT,...)/File(\EFI\Microsoft\Boot\bootmgfw.efi)
package efiboot

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/danieljhkim/pxefirst/internal/planner"
)

var (
	entryLine = regexp.MustCompile(`^Boot([0-9A-Fa-f]{4})(\*?)\s+(.*)$`)
	hexID     = regexp.MustCompile(`^[0-9A-Fa-f]{4}$`)
)

// ParseReport parses efibootmgr output into a planner snapshot.
//
// A missing BootOrder line yields an empty BootOrder and a malformed
// BootCurrent is treated as unknown; the planner decides whether that is
// fatal.
func ParseReport(text string) (*planner.Snapshot, error) {
	snap := &planner.Snapshot{}
	sawOrder := false

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case strings.HasPrefix(line, "BootCurrent:"):
			snap.BootCurrent = parseSingleID(strings.TrimPrefix(line, "BootCurrent:"))
		case strings.HasPrefix(line, "BootNext:"):
			snap.BootNext = parseSingleID(strings.TrimPrefix(line, "BootNext:"))
		case strings.HasPrefix(line, "BootOrder:"):
			sawOrder = true
			snap.BootOrder = ParseOrder(strings.TrimPrefix(line, "BootOrder:"))
		case strings.HasPrefix(line, "Timeout:"):
			snap.Timeout = strings.TrimSpace(strings.TrimPrefix(line, "Timeout:"))
		default:
			if entry, ok := parseEntry(line); ok {
				snap.Entries = append(snap.Entries, entry)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if !sawOrder && len(snap.Entries) == 0 {
		return nil, ErrUnrecognizedReport
	}
	return snap, nil
}

// ParseOrder splits a comma-separated boot order. Tokens that are not
// 4-digit hex ids are skipped.
func ParseOrder(s string) []string {
	var ids []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if hexID.MatchString(tok) {
			ids = append(ids, strings.ToUpper(tok))
		}
	}
	return ids
}

func parseSingleID(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 || !hexID.MatchString(fields[0]) {
		return ""
	}
	return strings.ToUpper(fields[0])
}

func parseEntry(line string) (planner.BootEntry, bool) {
	m := entryLine.FindStringSubmatch(line)
	if m == nil {
		return planner.BootEntry{}, false
	}

	desc, path, _ := strings.Cut(m[3], "\t")
	return planner.BootEntry{
		ID:          strings.ToUpper(m[1]),
		Description: strings.TrimSpace(desc),
		Active:      m[2] == "*",
		DevicePath:  strings.TrimSpace(path),
	}, true
}
