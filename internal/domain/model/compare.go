package model

// ResultsEqual reports whether an executed result set is equivalent to a
// reference result set. The comparison is strictly positional: field names
// must match name-exact at the same index, row i compares against row i, and
// every cell compares as a string. Values are stringified before they get
// here, so "1" and "1.0" are different answers on purpose.
func ResultsEqual(actual QueryResult, expected ExpectedResult) bool {
	if len(actual.Fields) != len(expected.Fields) {
		return false
	}
	for i, name := range actual.Fields {
		if name != expected.Fields[i] {
			return false
		}
	}

	if len(actual.Rows) != len(expected.Rows) {
		return false
	}
	for i, row := range actual.Rows {
		want := expected.Rows[i]
		if len(row) != len(want) {
			return false
		}
		for j, cell := range row {
			if cell != want[j] {
				return false
			}
		}
	}
	return true
}
