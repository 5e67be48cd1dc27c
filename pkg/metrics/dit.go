package metrics

import "github.com/corvidae/augur/pkg/model"

// DIT returns the depth of the inheritance tree for a class: parent hops
// until a class with no parent, or a parent the registry does not know
// (an external ancestor), is reached.
//
// The walk keeps an explicit visited set. If a parent name recurs the chain
// is cyclic: the walk stops with the hops taken so far and returns the
// cycle's participating class names, in chain order starting at the first
// repeated name.
func DIT(r *model.Registry, c *model.Class) (int, []string) {
	depth := 0
	visited := map[string]bool{c.Name(): true}
	chain := []string{c.Name()}

	cur := c
	for {
		parent := cur.Parent()
		if parent == "" {
			return depth, nil
		}
		next, known := r.Class(parent)
		if !known {
			return depth, nil
		}
		if visited[parent] {
			for i, name := range chain {
				if name == parent {
					return depth, append([]string(nil), chain[i:]...)
				}
			}
			return depth, nil
		}

		depth++
		visited[parent] = true
		chain = append(chain, parent)
		cur = next
	}
}
