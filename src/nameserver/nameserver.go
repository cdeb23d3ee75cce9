// Package nameserver defines the endpoint identity and per-run timing data
// consumed by the chart layer. Values are built once per benchmark run and
// never mutated by consumers.
package nameserver

import "strings"

// Nameserver identifies one measured DNS endpoint.
type Nameserver struct {
	Name string
	IP   string
	// SystemPosition is the server's index in the host resolver
	// configuration. nil means the server did not come from system config.
	SystemPosition *int
	// IsKeeper marks servers the user asked to keep across comparisons.
	IsKeeper bool
}

// Label returns the string used in chart legends and row labels: the display
// name, or the IP when the name is too short to be useful.
func (ns *Nameserver) Label() string {
	if len(ns.Name) > 1 {
		return ns.Name
	}
	return ns.IP
}

// RunData pairs a server with one ordered series of durations in
// milliseconds. For distribution graphs the series holds raw query durations;
// for the per-run bar graph it holds one average per run, in run order.
type RunData struct {
	Server    *Nameserver
	Durations []float64
}

// Compare is the total order used for chart rows and legends. Servers with an
// explicit system position sort before those without one, lower positions
// first. Keepers sort before non-keepers. Remaining ties break on ascending
// name. Returns a negative value when a sorts before b.
func Compare(a, b *Nameserver) int {
	aPos, bPos := a.SystemPosition, b.SystemPosition
	switch {
	case aPos != nil && bPos == nil:
		return -1
	case aPos == nil && bPos != nil:
		return 1
	case aPos != nil && bPos != nil && *aPos != *bPos:
		if *aPos < *bPos {
			return -1
		}
		return 1
	}
	if a.IsKeeper != b.IsKeeper {
		if a.IsKeeper {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Name, b.Name)
}

// Less reports whether a sorts before b under Compare.
func Less(a, b *Nameserver) bool { return Compare(a, b) < 0 }
