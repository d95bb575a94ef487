package provision

import (
	"fmt"
	"strings"
)

// Status is a point-in-time snapshot of the device, as reported by netlink.
type Status struct {
	Name      string
	Kind      string
	Index     int
	MTU       int
	Up        bool
	OperState string
	Addrs     []string
}

func (s *Status) String() string {
	state := "DOWN"
	if s.Up {
		state = "UP"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d: %s (%s): mtu %d state %s oper %s", s.Index, s.Name, s.Kind, s.MTU, state, s.OperState)
	for _, a := range s.Addrs {
		fmt.Fprintf(&b, "\n    inet %s", a)
	}
	return b.String()
}
