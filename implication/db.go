// Package implication implements the implication database (spec.md C5):
// per-literal sets of implied literals, with transitive-closure traversal
// that detects contradiction during the walk rather than after it.
//
// Grounded on the teacher's sat/conflict_analysis.go and sat/trail.go —
// both maintain per-literal reachability with an explicit visited set and
// abort early on a detected conflict; this database generalizes that
// shape from a single learned clause trail to a persistent, queryable
// graph kept for the lifetime of a circuit instance.
package implication

import "github.com/circuitlogic/implog/circuit"

// DB is the implication database: imp0[g] is the set of literals implied
// by (g,0), imp1[g] the set implied by (g,1). Both are indexed by gate
// id; index 0 is unused, matching Circuit's own gate-id numbering.
type DB struct {
	imp0 []map[circuit.Literal]struct{}
	imp1 []map[circuit.Literal]struct{}
}

// New allocates a database for numGates gates (0..numGates-1, id 0
// unused), with every literal already seeded reflexively: (g,v) ∈
// imp_v[g] for every gate and value (spec.md §3 invariant, property test
// 1 in spec.md §8).
func New(numGates int) *DB {
	db := &DB{
		imp0: make([]map[circuit.Literal]struct{}, numGates),
		imp1: make([]map[circuit.Literal]struct{}, numGates),
	}
	for g := 1; g < numGates; g++ {
		db.imp0[g] = map[circuit.Literal]struct{}{circuit.Lit(g, circuit.Zero): {}}
		db.imp1[g] = map[circuit.Literal]struct{}{circuit.Lit(g, circuit.One): {}}
	}
	return db
}

func (db *DB) setFor(l circuit.Literal) map[circuit.Literal]struct{} {
	if l.Bit == circuit.Zero {
		return db.imp0[l.Gate]
	}
	return db.imp1[l.Gate]
}

// Insert adds dst to the set implied by src.
func (db *DB) Insert(src, dst circuit.Literal) {
	db.setFor(src)[dst] = struct{}{}
}

// Has reports whether dst is recorded as directly implied by src (does
// not traverse the transitive closure).
func (db *DB) Has(src, dst circuit.Literal) bool {
	_, ok := db.setFor(src)[dst]
	return ok
}

// Direct returns the directly-recorded implication set for src, not its
// transitive closure. The returned map must not be mutated by the
// caller.
func (db *DB) Direct(src circuit.Literal) map[circuit.Literal]struct{} {
	return db.setFor(src)
}

// Clear empties the set implied by src, marking src contradictory/fixed
// (spec.md §3: "a gate is fixed-at-nothing ... if one of its lists has
// been explicitly emptied by the learner"). This is the only way a
// literal is ever removed from the database once inserted.
func (db *DB) Clear(src circuit.Literal) {
	if src.Bit == circuit.Zero {
		db.imp0[src.Gate] = map[circuit.Literal]struct{}{}
	} else {
		db.imp1[src.Gate] = map[circuit.Literal]struct{}{}
	}
}

// IsFixed reports whether src's implication list was cleared by a prior
// contradiction (an empty list after reflexive seeding only ever means
// Clear ran, since insertion is otherwise monotone).
func (db *DB) IsFixed(src circuit.Literal) bool {
	return len(db.setFor(src)) == 0
}

// Close computes the transitive closure of src over the implication
// graph: depth-first, with a visited set preventing re-traversal, seeded
// reflexively with src itself. If, during traversal, both some literal
// and its complement are found to be reachable, Close aborts the walk
// immediately and reports contradiction=true; the returned set in that
// case holds whatever was accumulated before the abort and must not be
// used by the caller (the learner's response to contradiction is to
// Clear src, not to consult the partial closure).
func (db *DB) Close(src circuit.Literal) (reachable map[circuit.Literal]struct{}, contradiction bool) {
	reachable = map[circuit.Literal]struct{}{}
	visited := map[circuit.Literal]struct{}{}
	contradiction = db.closeDFS(src, reachable, visited)
	return reachable, contradiction
}

func (db *DB) closeDFS(l circuit.Literal, reachable, visited map[circuit.Literal]struct{}) bool {
	if _, seen := visited[l]; seen {
		return false
	}
	visited[l] = struct{}{}

	if _, present := reachable[l.Negate()]; present {
		return true
	}
	reachable[l] = struct{}{}

	for next := range db.setFor(l) {
		if next == l {
			continue
		}
		if _, present := reachable[next.Negate()]; present {
			return true
		}
		if db.closeDFS(next, reachable, visited) {
			return true
		}
	}
	return false
}
