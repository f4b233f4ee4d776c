// Package optimistic applies list mutations tentatively and rolls them back when the
// server rejects the change. The functions are pure: they never modify their inputs.
package optimistic

import "slices"

// Keyed is implemented by list items that can be identified across renders.
type Keyed interface {
	Key() string
}

// Op is the kind of change a Mutation makes.
type Op int

const (
	// OpRemove drops the item whose key matches.
	OpRemove Op = iota + 1
	// OpUpsert replaces the item with the same key, or appends it when absent.
	OpUpsert
)

// Mutation is one tentative change to a list.
type Mutation[T Keyed] struct {
	Op   Op
	Key  string
	Item T
}

// Remove builds a mutation deleting the item with key.
func Remove[T Keyed](key string) Mutation[T] {
	return Mutation[T]{Op: OpRemove, Key: key}
}

// Upsert builds a mutation inserting or replacing item.
func Upsert[T Keyed](item T) Mutation[T] {
	return Mutation[T]{Op: OpUpsert, Key: item.Key(), Item: item}
}

// Result holds the tentative list alongside the snapshot needed to undo it.
type Result[T Keyed] struct {
	Tentative []T
	Snapshot  []T
	// Changed is false when the mutation had nothing to act on.
	Changed bool
}

// Apply returns the list as it looks once the mutation succeeds, plus a snapshot of prev.
func Apply[T Keyed](prev []T, m Mutation[T]) Result[T] {
	snapshot := slices.Clone(prev)
	idx := slices.IndexFunc(prev, func(it T) bool { return it.Key() == m.Key })

	switch m.Op {
	case OpRemove:
		if idx < 0 {
			return Result[T]{Tentative: slices.Clone(prev), Snapshot: snapshot}
		}
		next := make([]T, 0, len(prev)-1)
		next = append(next, prev[:idx]...)
		next = append(next, prev[idx+1:]...)
		return Result[T]{Tentative: next, Snapshot: snapshot, Changed: true}
	case OpUpsert:
		next := slices.Clone(prev)
		if idx < 0 {
			next = append(next, m.Item)
		} else {
			next[idx] = m.Item
		}
		return Result[T]{Tentative: next, Snapshot: snapshot, Changed: true}
	default:
		return Result[T]{Tentative: slices.Clone(prev), Snapshot: snapshot}
	}
}

// Settle resolves a tentative change: the tentative list on success, the snapshot on failure.
func Settle[T Keyed](r Result[T], err error) []T {
	if err != nil {
		return r.Snapshot
	}
	return r.Tentative
}

// Run applies m, calls commit and settles with its outcome. The returned error is commit's.
func Run[T Keyed](prev []T, m Mutation[T], commit func() error) ([]T, error) {
	res := Apply(prev, m)
	err := commit()
	return Settle(res, err), err
}
