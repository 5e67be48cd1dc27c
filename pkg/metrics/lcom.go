package metrics

import "github.com/corvidae/augur/pkg/model"

// LCOM returns the lack-of-cohesion measure for a class.
//
// Every unordered pair of the class's own declared methods is compared:
// a pair sharing at least one accessed attribute is cohesive (Q), a pair
// sharing none is not (P). The result is max(P-Q, 0). Classes with fewer
// than two methods have no pairs and score 0. Inherited methods are not
// part of the scan.
func LCOM(c *model.Class) int {
	methods := c.Methods()
	if len(methods) < 2 {
		return 0
	}

	p, q := 0, 0
	for i := 0; i < len(methods); i++ {
		for j := i + 1; j < len(methods); j++ {
			if methods[i].SharesAttribute(methods[j]) {
				q++
			} else {
				p++
			}
		}
	}

	if p > q {
		return p - q
	}
	return 0
}

// CBO returns the coupling-between-objects count: the number of distinct
// registered classes referenced from the class's method bodies, self
// excluded. Resolution already happened in the registry's second build
// pass, so this is a plain set size.
func CBO(c *model.Class) int {
	return c.CouplingCount()
}
