// Package vecitem implements VecCopy, a demo item that copies a byte vec
// from one resource slot (VecA, the goal) to another (VecB, the current
// state) — the worked example spec §8's scenarios S1-S6 drive end to end.
// Grounded on original_source workspace_tests/src/{vec_copy_item,vec_copy_item_spec}.rs
// and crate/diff/src/impls/vec_diff.rs.
package vecitem

import "fmt"

// ChangeKind discriminates one edit VecDiff records between two byte vecs.
type ChangeKind int

const (
	// Removed drops Len bytes starting at Index.
	Removed ChangeKind = iota
	// Altered replaces len(Changes) bytes starting at Index in place.
	Altered
	// Inserted splices Changes in at Index.
	Inserted
)

// Change is one edit in a VecDiff.
type Change struct {
	Kind    ChangeKind
	Index   int
	Len     int // only meaningful for Removed
	Changes []byte
}

// VecDiff is an ordered list of edits that turns one []byte into another,
// the Go stand-in for the original crate's generic VecDiff<T>.
type VecDiff []Change

// String renders a VecDiff using the original's bracketed
// "(-)lo..hi, (~)idx;v1, v2, (+)idx;v1, v2, " notation (spec §8's worked
// examples print diffs this way).
func (d VecDiff) String() string {
	s := "["
	for _, c := range d {
		switch c.Kind {
		case Removed:
			s += fmt.Sprintf("(-)%d..%d, ", c.Index, c.Index+c.Len)
		case Altered:
			s += fmt.Sprintf("(~)%d;", c.Index)
			for _, v := range c.Changes {
				s += fmt.Sprintf("%d, ", v)
			}
		case Inserted:
			s += fmt.Sprintf("(+)%d;", c.Index)
			for _, v := range c.Changes {
				s += fmt.Sprintf("%d, ", v)
			}
		}
	}
	return s + "]"
}

// DiffBytes computes the edit list turning from into to, using the same
// "nearest matching element" walk as the original's Vec<T>::diff (a
// simplified patience-diff: scan increasing (x+y) depth until a[x]==b[y],
// then record whichever of Removed/Altered/Inserted accounts for the gap
// before that match).
func DiffBytes(from, to []byte) VecDiff {
	var changes VecDiff
	posX, posY := 0, 0
	for {
		isMatch, deletions, insertions := findMatch(from[posX:], to[posY:])

		switch {
		case deletions == 0 && insertions == 0:
			// nothing to record before the match (or both slices exhausted)
		case deletions == 0:
			changes = append(changes, Change{
				Kind:    Inserted,
				Index:   posX,
				Changes: append([]byte(nil), to[posY:posY+insertions]...),
			})
		case insertions == 0:
			changes = append(changes, Change{
				Kind:  Removed,
				Index: posX,
				Len:   deletions,
			})
		case deletions == insertions:
			changes = append(changes, Change{
				Kind:    Altered,
				Index:   posX,
				Changes: append([]byte(nil), to[posY:posY+insertions]...),
			})
		case deletions > insertions:
			changes = append(changes, Change{
				Kind:    Altered,
				Index:   posX,
				Changes: append([]byte(nil), to[posY:posY+insertions]...),
			})
			changes = append(changes, Change{
				Kind:  Removed,
				Index: posX + insertions,
				Len:   deletions - insertions,
			})
		default: // insertions > deletions
			changes = append(changes, Change{
				Kind:    Altered,
				Index:   posX,
				Changes: append([]byte(nil), to[posY:posY+deletions]...),
			})
			changes = append(changes, Change{
				Kind:    Inserted,
				Index:   posX + deletions,
				Changes: append([]byte(nil), to[posY+deletions:posY+insertions]...),
			})
		}

		if !isMatch {
			break
		}
		posX += deletions + 1
		posY += insertions + 1
	}
	return changes
}

// ApplyDiff applies d to a copy of from, returning the resulting bytes.
func ApplyDiff(from []byte, d VecDiff) []byte {
	out := append([]byte(nil), from...)
	relative := 0
	for _, c := range d {
		idx := c.Index + relative
		switch c.Kind {
		case Removed:
			out = append(out[:idx], out[idx+c.Len:]...)
			relative -= c.Len
		case Inserted:
			out = append(out[:idx], append(append([]byte(nil), c.Changes...), out[idx:]...)...)
			relative += len(c.Changes)
		case Altered:
			copy(out[idx:idx+len(c.Changes)], c.Changes)
		}
	}
	return out
}

// findMatch locates the nearest-to-start element common to both slices,
// walking increasing depth = x+y the same way the original's find_match
// does. Returns whether a match was found and the deletions/insertions
// (offsets into a/b) needed to reach it; if no match exists, both offsets
// are the respective slice's length.
func findMatch(a, b []byte) (found bool, x, y int) {
	if len(a) == 0 || len(b) == 0 {
		return false, len(a), len(b)
	}

	maxDepth := len(a) + len(b) - 1
	for depth := 0; depth < maxDepth; depth++ {
		xLowerBound := depth - len(b) + 1
		if xLowerBound < 0 {
			xLowerBound = 0
		}
		x = depth
		if x > len(a)-1 {
			x = len(a) - 1
		}
		for {
			y = depth - x
			if a[x] == b[y] {
				found = true
				break
			}
			if x > xLowerBound {
				x--
			} else {
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		x, y = len(a), len(b)
	}
	return found, x, y
}
