// Package style defines the closed set of style-transfer model variants.
//
// Every variant is a separately trained set of weights for the same network
// architecture. The set is compiled in and never changes at runtime; a name
// outside it is rejected rather than mapped to a default.
package style

import (
	"errors"
	"strconv"
	"strings"
)

// Variant identifies one trained style network.
type Variant uint8

const (
	Mosaic Variant = iota + 1
	Candy
	RainPrincess
	Udnie
)

// Default is the variant used when a request does not name one.
const Default = Mosaic

var names = map[Variant]string{
	Mosaic:       "mosaic",
	Candy:        "candy",
	RainPrincess: "rain_princess",
	Udnie:        "udnie",
}

var titles = map[Variant]string{
	Mosaic:       "Mosaic",
	Candy:        "Candy",
	RainPrincess: "Rain Princess",
	Udnie:        "Udnie",
}

var all = []Variant{Mosaic, Candy, RainPrincess, Udnie}

// All returns every variant in load order.
func All() []Variant {
	return append([]Variant(nil), all...)
}

// Names returns the names of every variant in load order.
func Names() []string {
	out := make([]string, len(all))
	for i, v := range all {
		out[i] = v.String()
	}
	return out
}

// String returns the wire name of v, or "" for the zero value.
func (v Variant) String() string { return names[v] }

// Title returns a display name, e.g. "Rain Princess".
func (v Variant) Title() string { return titles[v] }

// Valid reports whether v is one of the known variants.
func (v Variant) Valid() bool {
	_, ok := names[v]
	return ok
}

// Parse resolves a wire name to its variant. Matching is exact; surrounding
// whitespace is ignored.
func Parse(name string) (Variant, error) {
	n := strings.TrimSpace(name)
	for _, v := range all {
		if names[v] == n {
			return v, nil
		}
	}
	return 0, UnknownError{Name: name}
}

// UnknownError reports a model name outside the compiled-in set.
type UnknownError struct{ Name string }

func (e UnknownError) Error() string {
	return "unknown model " + strconv.Quote(e.Name) + "; valid models: " + strings.Join(Names(), ", ")
}

// IsUnknown reports whether err (or anything it wraps) is an UnknownError.
func IsUnknown(err error) bool {
	var ue UnknownError
	return errors.As(err, &ue)
}

// MarshalText implements encoding.TextMarshaler so variants serialize by name.
func (v Variant) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, UnknownError{Name: strconv.Itoa(int(v))}
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Variant) UnmarshalText(b []byte) error {
	p, err := Parse(string(b))
	if err != nil {
		return err
	}
	*v = p
	return nil
}
