package engine

import (
	"fmt"
	"strconv"
	"strings"

	"SharkScan/internal/domain/models"
	"SharkScan/internal/domain/service"
	"SharkScan/internal/services/strategy"
)

// DefaultSelection runs every registered strategy with default parameters.
func DefaultSelection() service.Selection {
	names := strategy.Names()
	out := make(service.Selection, len(names))
	for i, name := range names {
		out[i] = service.StrategySpec{Name: name}
	}
	return out
}

// SelectionFromNames builds a selection from plain names. Blank and
// repeated names are dropped.
func SelectionFromNames(names []string) service.Selection {
	out := make(service.Selection, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, service.StrategySpec{Name: name})
	}
	return out
}

// ParseSelection accepts "smc", "smc,order_block" or
// "smc:window=10;volume_multiplier=2,wyckoff". An empty string selects
// every registered strategy.
func ParseSelection(raw string) (service.Selection, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSelection(), nil
	}

	var out service.Selection
	index := map[string]int{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, paramStr, _ := strings.Cut(part, ":")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			return nil, fmt.Errorf("strategy name missing in %q", part)
		}
		params, err := parseParams(paramStr)
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", name, err)
		}
		if i, ok := index[name]; ok {
			for k, v := range params {
				if out[i].Params == nil {
					out[i].Params = models.Params{}
				}
				out[i].Params[k] = v
			}
			continue
		}
		index[name] = len(out)
		out = append(out, service.StrategySpec{Name: name, Params: params})
	}
	return out, nil
}

func parseParams(s string) (models.Params, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	params := models.Params{}
	for _, kv := range strings.Split(s, ";") {
		if strings.TrimSpace(kv) == "" {
			continue
		}
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q is not key=value", kv)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", strings.TrimSpace(k), err)
		}
		params[strings.ToLower(strings.TrimSpace(k))] = f
	}
	return params, nil
}
