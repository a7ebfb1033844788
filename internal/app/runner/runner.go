// Package runner executes arbitrary SQL against the bundled practice dataset.
// Every invocation runs inside a single transaction that is always rolled
// back, so learner experimentation (including DELETE, UPDATE or a typed-in
// COMMIT) never mutates the dataset. All cell values are stringified at scan
// time so the comparison layer sees a representation-stable result.
package runner

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// RawResult is the result set of one SQL script: column names plus rows of
// pre-stringified values.
type RawResult struct {
	Fields []string
	Rows   [][]string
}

// Runner is the execution boundary the play engine depends on. Each script is
// run in order inside one shared transaction; the transaction is rolled back
// unconditionally before the call returns.
type Runner interface {
	RunInRollbackTransaction(ctx context.Context, scripts ...string) ([]RawResult, error)
}

type SQLRunner struct {
	db *sql.DB
}

func New(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db}
}

func (r *SQLRunner) RunInRollbackTransaction(ctx context.Context, scripts ...string) ([]RawResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("runner: begin transaction: %w", err)
	}
	// Never committed. The rollback is the sandbox, not cleanup.
	defer tx.Rollback()

	results := make([]RawResult, 0, len(scripts))
	for _, script := range scripts {
		res, err := runScript(ctx, tx, script)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// runScript executes one script inside the transaction. A script may contain
// multiple statements; only the last statement's result set is returned,
// matching how the SQL editor evaluates multi-statement input.
func runScript(ctx context.Context, tx *sql.Tx, script string) (RawResult, error) {
	statements := SplitStatements(script)
	if len(statements) == 0 {
		return RawResult{}, fmt.Errorf("runner: empty script")
	}

	for _, stmt := range statements[:len(statements)-1] {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return RawResult{}, err
		}
	}

	rows, err := tx.QueryContext(ctx, statements[len(statements)-1])
	if err != nil {
		return RawResult{}, err
	}
	defer rows.Close()

	fields, err := rows.Columns()
	if err != nil {
		return RawResult{}, err
	}

	result := RawResult{Fields: fields}
	for rows.Next() {
		values := make([]interface{}, len(fields))
		ptrs := make([]interface{}, len(fields))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return RawResult{}, err
		}

		row := make([]string, len(fields))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return RawResult{}, err
	}
	return result, nil
}

// formatValue renders a scanned cell as text. Dates without a time-of-day
// render as a bare date, mirroring how the dataset stores them.
func formatValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
