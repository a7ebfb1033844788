package model

// Problem is one exercise from the static catalog: a prompt plus one or more
// accepted reference solutions. Catalog problems are immutable.
type Problem struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Solutions   []Solution `json:"solutions"`
}

// Solution is one accepted reference query. Expected is the canonical result
// set, materialized at startup by running SQL against the bundled dataset.
type Solution struct {
	SQL      string         `json:"sql"`
	Expected ExpectedResult `json:"expected"`
}

// ExpectedResult is a reference result set. Field order and row order are both
// significant.
type ExpectedResult struct {
	Fields []string   `json:"fields"`
	Rows   [][]string `json:"rows"`
}

// QueryResult is an executed result set prepared for display. Cell values are
// always their textual form so comparison is representation-stable.
// IsTruncated marks that the raw result exceeded the display cap.
type QueryResult struct {
	Fields      []string   `json:"fields"`
	Rows        [][]string `json:"rows"`
	IsTruncated bool       `json:"is_truncated"`
}

// Truncate returns a copy limited to max rows for display. The untruncated
// receiver must still be the one used for correctness comparison.
func (r QueryResult) Truncate(max int) QueryResult {
	if len(r.Rows) <= max {
		return QueryResult{Fields: r.Fields, Rows: r.Rows}
	}
	return QueryResult{Fields: r.Fields, Rows: r.Rows[:max], IsTruncated: true}
}

// ProblemSet is a named, ordered collection of problem references. Built-in
// sets ship with the binary and cannot be changed or removed; custom sets are
// user-owned and persisted. The JSON shape (isBuildIn tag included) is also the
// share-link payload shape.
type ProblemSet struct {
	ID         string   `json:"id" validate:"required"`
	Title      string   `json:"title" validate:"required"`
	ProblemIDs []string `json:"problemIds" validate:"required,min=1,dive,required"`
	IsBuildIn  bool     `json:"isBuildIn"`
}
