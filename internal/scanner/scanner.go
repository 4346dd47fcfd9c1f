package scanner

import (
	"context"
	"fmt"

	"TickerScanner/internal/domain"
)

// Request carries all parameters required to scan one site for one ticker.
type Request struct {
	Symbol   string
	SiteName string
	URL      string
	Options  map[string]string
}

// Result maps extracted fields to their values; Unknown marks a miss.
type Result map[domain.Field]string

// Scanner captures a single site strategy (Finviz, MarketWatch, OTC Markets).
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) (Result, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
	order    []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	if _, ok := r.scanners[scanner.Name()]; !ok {
		r.order = append(r.order, scanner.Name())
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}

// Names lists registered scanners in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
