package episodes

import "fmt"

// Group is a range of episodes shown together
type Group struct {
	Index int
	// Start and End are 1-based and inclusive
	Start int
	End   int
	Label string
}

// Groups splits n episodes into ranges of size. Lists that fit in one range
// get a single "All Episodes" group.
func Groups(n, size int) []Group {
	if size <= 0 {
		size = DefaultGroupSize
	}
	if n <= size {
		return []Group{{Index: 0, Start: 1, End: n, Label: "All Episodes"}}
	}

	count := (n + size - 1) / size
	groups := make([]Group, 0, count)
	for i := 0; i < count; i++ {
		start := i*size + 1
		end := min((i+1)*size, n)
		groups = append(groups, Group{
			Index: i,
			Start: start,
			End:   end,
			Label: fmt.Sprintf("Episodes %d-%d", start, end),
		})
	}
	return groups
}

// Slice returns the entries of group. Out of range groups return nil.
func Slice(entries []Entry, group, size int) []Entry {
	if size <= 0 {
		size = DefaultGroupSize
	}
	if len(entries) <= size {
		return entries
	}

	start := group * size
	if group < 0 || start >= len(entries) {
		return nil
	}
	return entries[start:min(start+size, len(entries))]
}
