package strategy

import (
	"sort"
	"strings"

	"SharkScan/internal/domain/service"
)

// Factory builds a fresh detector for one call.
type Factory func() service.Detector

var registry = map[string]Factory{
	OrderBlockName: NewOrderBlock,
	SMCName:        NewSMC,
	WyckoffName:    NewWyckoff,
}

// Lookup resolves a strategy name (case-insensitive).
func Lookup(name string) (service.Detector, bool) {
	f, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Names lists registered strategies in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
