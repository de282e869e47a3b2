// Package dispatch routes a document to the strategy that can turn it into a
// printable raster.
package dispatch

import (
	"fmt"

	"github.com/spherical/thermal-print/internal/domain"
)

// Dispatcher selects a conversion strategy by document kind.
type Dispatcher struct {
	strategies map[domain.DocumentKind]domain.Strategy
}

// New creates a dispatcher over the given strategies. Registering two
// strategies for the same kind is a programming error.
func New(strategies ...domain.Strategy) *Dispatcher {
	d := &Dispatcher{strategies: make(map[domain.DocumentKind]domain.Strategy, len(strategies))}
	for _, s := range strategies {
		if _, dup := d.strategies[s.Kind()]; dup {
			panic(fmt.Sprintf("dispatch: duplicate strategy for %s", s.Kind()))
		}
		d.strategies[s.Kind()] = s
	}
	return d
}

// Select returns the strategy for doc, or an unsupported_format error naming
// the extension.
func (d *Dispatcher) Select(doc domain.SourceDocument) (domain.Strategy, error) {
	s, ok := d.strategies[doc.Kind]
	if !ok {
		return nil, domain.UnsupportedFormatError(doc.Ext)
	}
	return s, nil
}
