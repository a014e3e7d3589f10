package geo

import "strings"

// DefaultOrigin is used when a location token is not in the lookup table (Rocklin, CA).
var DefaultOrigin = Coordinate{Lat: 38.79, Lng: -121.23}

var defaultPostalCodes = map[string]Coordinate{
	"95765": {Lat: 38.79, Lng: -121.23},
	"95747": {Lat: 38.77, Lng: -121.28},
	"95746": {Lat: 38.77, Lng: -121.18},
	"95648": {Lat: 38.89, Lng: -121.30},
	"95678": {Lat: 38.72, Lng: -121.22},
	"95661": {Lat: 38.75, Lng: -121.25},
}

// Resolver maps location tokens (postal codes) to coordinates.
type Resolver struct {
	table    map[string]Coordinate
	fallback Coordinate
}

// NewResolver builds a resolver over the built-in postal code table.
func NewResolver() *Resolver {
	return NewResolverWithTable(defaultPostalCodes, DefaultOrigin)
}

// NewResolverWithTable builds a resolver over a custom table and fallback.
func NewResolverWithTable(table map[string]Coordinate, fallback Coordinate) *Resolver {
	copied := make(map[string]Coordinate, len(table))
	for k, v := range table {
		copied[strings.TrimSpace(k)] = v
	}
	return &Resolver{table: copied, fallback: fallback}
}

// Resolve returns the coordinate for token. The boolean is false when the fallback was used.
func (r *Resolver) Resolve(token string) (Coordinate, bool) {
	if r == nil {
		return DefaultOrigin, false
	}
	if c, ok := r.table[strings.TrimSpace(token)]; ok {
		return c, true
	}
	return r.fallback, false
}
