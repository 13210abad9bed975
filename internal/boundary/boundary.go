// Package boundary builds the free/fixed masks that reduce a global system
// to the degrees of freedom that participate in the solve.
package boundary

import (
	"strings"

	"github.com/san-kum/structdyn/internal/dynamo"
)

// Fastening says which displacements a node allows.
type Fastening struct {
	AllowLinear  bool
	AllowAngular bool
}

var (
	Pinned = Fastening{AllowLinear: false, AllowAngular: true}
	Fixed  = Fastening{AllowLinear: false, AllowAngular: false}
	Simple = Fastening{AllowLinear: true, AllowAngular: true}
)

// ParseFastening maps a fastening name to its flags. "free" is an alias of
// "simple".
func ParseFastening(name string) (Fastening, error) {
	switch strings.ToLower(name) {
	case "pinned":
		return Pinned, nil
	case "fixed":
		return Fixed, nil
	case "simple", "free":
		return Simple, nil
	default:
		return Fastening{}, dynamo.Invalid("unknown fastening %q", name)
	}
}

// Mask builds the mechanical mask for a beam with nodes*2 degrees of freedom.
// Only the first and the last node read their flags from fastenings; every
// other degree of freedom is free.
func Mask(fastenings map[int]Fastening, nodes int) ([]bool, int) {
	mask := make([]bool, 2*nodes)
	for i := range mask {
		mask[i] = true
	}

	for _, node := range []int{0, nodes - 1} {
		f, ok := fastenings[node]
		if !ok {
			continue
		}
		mask[2*node] = f.AllowLinear
		mask[2*node+1] = f.AllowAngular
	}

	return mask, Count(mask)
}

// PiezoelectricMask marks a node free when it borders an element carrying
// piezoelectric material. Element numbers are 1-based: element e spans nodes
// e-1 and e.
func PiezoelectricMask(piezoElements []int, nodes int) ([]bool, int) {
	mask := make([]bool, nodes)
	for _, e := range piezoElements {
		if e < 1 || e >= nodes {
			continue
		}
		mask[e-1] = true
		mask[e] = true
	}
	return mask, Count(mask)
}

// Concat joins masks in order and returns the combined true count.
func Concat(masks ...[]bool) ([]bool, int) {
	var out []bool
	for _, m := range masks {
		out = append(out, m...)
	}
	return out, Count(out)
}

func Count(mask []bool) int {
	n := 0
	for _, free := range mask {
		if free {
			n++
		}
	}
	return n
}
