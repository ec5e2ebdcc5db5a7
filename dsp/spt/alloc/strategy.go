package alloc

import (
	"fmt"
	"strings"
)

// Strategy selects how the term budget is distributed.
type Strategy int

const (
	Uniform Strategy = iota
	Greedy
	Hybrid
	PerTap
)

var strategyNames = map[Strategy]string{
	Uniform: "uniform",
	Greedy:  "greedy",
	Hybrid:  "hybrid",
	PerTap:  "pertap",
}

// Aliases accepted by ParseStrategy in addition to the canonical names.
var strategyAliases = map[string]Strategy{
	"nonuniform": Greedy,
	"osat":       Greedy,
	"exchange":   Hybrid,
	"exact":      PerTap,
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps a case-insensitive name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == key {
			return s, nil
		}
	}
	if s, ok := strategyAliases[key]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

func (s Strategy) valid() bool {
	_, ok := strategyNames[s]
	return ok
}
