package metrics

import (
	"reflect"
	"testing"

	"github.com/corvidae/augur/pkg/syntax"
)

func TestDITRootAndChild(t *testing.T) {
	r := buildUnit(t,
		syntax.ClassDecl{Name: "Person"},
		syntax.ClassDecl{Name: "Student", Bases: []string{"Person"}},
	)

	if depth, _ := DIT(r, mustClass(t, r, "Person")); depth != 0 {
		t.Errorf("DIT(Person) = %d, want 0", depth)
	}
	if depth, _ := DIT(r, mustClass(t, r, "Student")); depth != 1 {
		t.Errorf("DIT(Student) = %d, want 1", depth)
	}
}

func TestDITChainLength(t *testing.T) {
	r := buildUnit(t,
		syntax.ClassDecl{Name: "A"},
		syntax.ClassDecl{Name: "B", Bases: []string{"A"}},
		syntax.ClassDecl{Name: "C", Bases: []string{"B"}},
		syntax.ClassDecl{Name: "D", Bases: []string{"C"}},
	)

	for name, want := range map[string]int{"A": 0, "B": 1, "C": 2, "D": 3} {
		if depth, cycle := DIT(r, mustClass(t, r, name)); depth != want || cycle != nil {
			t.Errorf("DIT(%s) = %d (cycle %v), want %d", name, depth, cycle, want)
		}
	}
}

func TestDITUnknownAncestorStopsWalk(t *testing.T) {
	// Exception is not declared in the unit, so ValueError's depth is 0 and
	// TypeError's walk stops after one hop.
	r := buildUnit(t,
		syntax.ClassDecl{Name: "ValueError", Bases: []string{"Exception"}},
		syntax.ClassDecl{Name: "TypeError", Bases: []string{"ValueError"}},
	)

	if depth, _ := DIT(r, mustClass(t, r, "ValueError")); depth != 0 {
		t.Errorf("DIT with unknown base = %d, want 0", depth)
	}
	if depth, _ := DIT(r, mustClass(t, r, "TypeError")); depth != 1 {
		t.Errorf("DIT stopping at unknown ancestor = %d, want 1", depth)
	}
}

func TestDITSecondBaseIgnored(t *testing.T) {
	r := buildUnit(t,
		syntax.ClassDecl{Name: "Mixin"},
		syntax.ClassDecl{Name: "Base"},
		syntax.ClassDecl{Name: "Impl", Bases: []string{"Base", "Mixin"}},
		syntax.ClassDecl{Name: "Leaf", Bases: []string{"Impl"}},
	)

	if depth, _ := DIT(r, mustClass(t, r, "Leaf")); depth != 2 {
		t.Errorf("DIT(Leaf) = %d, want 2 (Base chain only)", depth)
	}
}

func TestDITCycleTerminates(t *testing.T) {
	r := buildUnit(t,
		syntax.ClassDecl{Name: "A", Bases: []string{"C"}},
		syntax.ClassDecl{Name: "B", Bases: []string{"A"}},
		syntax.ClassDecl{Name: "C", Bases: []string{"B"}},
	)

	depth, cycle := DIT(r, mustClass(t, r, "A"))
	if depth != 2 {
		t.Errorf("cyclic DIT depth = %d, want 2 hops before re-entry", depth)
	}
	if !reflect.DeepEqual(cycle, []string{"A", "C", "B"}) {
		t.Errorf("cycle participants = %v", cycle)
	}
}

func TestDITSelfParent(t *testing.T) {
	r := buildUnit(t,
		syntax.ClassDecl{Name: "Ouroboros", Bases: []string{"Ouroboros"}},
	)

	depth, cycle := DIT(r, mustClass(t, r, "Ouroboros"))
	if depth != 0 {
		t.Errorf("self-parent depth = %d, want 0", depth)
	}
	if !reflect.DeepEqual(cycle, []string{"Ouroboros"}) {
		t.Errorf("cycle participants = %v", cycle)
	}
}

func TestDITEntersCycleFromOutside(t *testing.T) {
	// X hangs off a two-class cycle; the walk takes all reachable hops and
	// reports only the cycle members.
	r := buildUnit(t,
		syntax.ClassDecl{Name: "X", Bases: []string{"A"}},
		syntax.ClassDecl{Name: "A", Bases: []string{"B"}},
		syntax.ClassDecl{Name: "B", Bases: []string{"A"}},
	)

	depth, cycle := DIT(r, mustClass(t, r, "X"))
	if depth != 2 {
		t.Errorf("depth into cycle = %d, want 2", depth)
	}
	if !reflect.DeepEqual(cycle, []string{"A", "B"}) {
		t.Errorf("cycle participants = %v, want [A B]", cycle)
	}
}
