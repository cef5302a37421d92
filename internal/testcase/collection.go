package testcase

import "fmt"

// Collection is the ordered, in-memory list of test case records shown in a
// preview. Operations never mutate the receiver; edits return a new value.
type Collection []Record

// UpdateField returns a copy of the collection with the named field of the
// record at index replaced by value. Out-of-range indices, unknown fields and
// non-editable fields leave the copy identical to the receiver.
func (c Collection) UpdateField(index int, field Field, value string) Collection {
	out := make(Collection, len(c))
	for i, r := range c {
		out[i] = r.clone()
	}

	if index < 0 || index >= len(out) || !field.Editable() {
		return out
	}

	if p := out[index].slot(field); p != nil {
		*p = Scalar(value)
	}
	return out
}

// Partition splits record indices into matched and unmatched sets,
// preserving order
func (c Collection) Partition() (matched, unmatched []int) {
	for i, r := range c {
		if r.IsMatched() {
			matched = append(matched, i)
		} else {
			unmatched = append(unmatched, i)
		}
	}
	return matched, unmatched
}

// Unmatched returns the records not linked to any route
func (c Collection) Unmatched() Collection {
	var out Collection
	for _, r := range c {
		if !r.IsMatched() {
			out = append(out, r)
		}
	}
	return out
}

// MatchSummary counts matched records against the collection size
type MatchSummary struct {
	Matched int
	Total   int
}

// MatchSummary computes the matched/total counters
func (c Collection) MatchSummary() MatchSummary {
	matched, _ := c.Partition()
	return MatchSummary{Matched: len(matched), Total: len(c)}
}

// Unmatched returns the number of records without a route
func (s MatchSummary) Unmatched() int {
	return s.Total - s.Matched
}

func (s MatchSummary) String() string {
	return fmt.Sprintf("%d auto-matched / %d total", s.Matched, s.Total)
}
