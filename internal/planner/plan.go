package planner

import "strings"

// Plan is the computed target boot order.
type Plan struct {
	// Order is the target boot order
	Order []string `json:"order"`

	// Changed is false when Order equals the current boot order
	Changed bool `json:"changed"`
}

// String returns the order in efibootmgr form.
func (p Plan) String() string {
	return FormatOrder(p.Order)
}

func validate(s *Snapshot) error {
	if len(s.PXEEntries()) == 0 {
		return ErrNoPxeEntryFound
	}
	if len(s.BootOrder) == 0 {
		return ErrNoBootOrderFound
	}
	return nil
}

// IsAlreadyOptimal reports whether the current order already satisfies the
// policy: a PXE entry first, followed by the booted OS, optionally with a
// second PXE entry in between.
//
// When BootCurrent is unknown a PXE-first order is accepted on its own.
func IsAlreadyOptimal(s *Snapshot) (bool, error) {
	if err := validate(s); err != nil {
		return false, err
	}

	order := s.BootOrder
	if !s.Category(order[0]).IsPXE() {
		return false, nil
	}
	if !s.HasBootCurrent() {
		return true, nil
	}

	current := strings.ToUpper(s.BootCurrent)
	if len(order) > 1 && strings.EqualFold(order[1], current) {
		return true, nil
	}
	if len(order) > 2 && s.Category(order[1]).IsPXE() && strings.EqualFold(order[2], current) {
		return true, nil
	}
	return false, nil
}

// ComputePlan builds the target boot order for s.
//
// The order is: PXE IPv4 entries, PXE IPv6 entries, other PXE entries, the
// booted entry (if known and not PXE), then every remaining entry except
// hard-drive entries, which are dropped.
func ComputePlan(s *Snapshot) (Plan, error) {
	if err := validate(s); err != nil {
		return Plan{}, err
	}

	seq := s.sequence()
	var ipv4, ipv6, other []string
	for _, id := range seq {
		switch s.Category(id) {
		case PxeIPv4:
			ipv4 = append(ipv4, id)
		case PxeIPv6:
			ipv6 = append(ipv6, id)
		case PxeOther:
			other = append(other, id)
		}
	}

	order := make([]string, 0, len(seq))
	placed := make(map[string]bool, len(seq))
	add := func(id string) {
		if placed[id] {
			return
		}
		placed[id] = true
		order = append(order, id)
	}

	for _, group := range [][]string{ipv4, ipv6, other} {
		for _, id := range group {
			add(id)
		}
	}

	if s.HasBootCurrent() {
		current := strings.ToUpper(s.BootCurrent)
		if !s.Category(current).IsPXE() {
			add(current)
		}
	}

	for _, id := range seq {
		if s.Category(id) == HardDrive {
			continue
		}
		add(id)
	}

	return Plan{Order: order, Changed: !sameOrder(order, s.BootOrder)}, nil
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}
