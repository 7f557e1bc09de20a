package model

// ResolveOrdered maps ids to books keeping the order of ids.
// Ids without a book and repeated ids are dropped.
func ResolveOrdered(ids []int64, found map[int64]*Book) []*Book {
	out := make([]*Book, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		b, ok := found[id]
		if !ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, b)
	}
	return out
}

// Exclude drops books whose id is in the set, keeping order
func Exclude(books []*Book, ids map[int64]struct{}) []*Book {
	out := make([]*Book, 0, len(books))
	for _, b := range books {
		if _, skip := ids[b.ID]; !skip {
			out = append(out, b)
		}
	}
	return out
}
