package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// CounterDrift reports how many rows of one denormalised counter disagree with
// the relation table it summarises.
type CounterDrift struct {
	Table   string
	Column  string
	Drifted int64
	Fixed   bool
}

type counterCheck struct {
	table  string
	column string
	// expected is a correlated subquery over the relation table, aliased against t
	expected string
}

var counterChecks = []counterCheck{
	{
		table:    "videos",
		column:   "like_count",
		expected: `(SELECT COUNT(*) FROM video_reactions r WHERE r.video_id = t.id AND r.kind = 'like')`,
	},
	{
		table:    "videos",
		column:   "dislike_count",
		expected: `(SELECT COUNT(*) FROM video_reactions r WHERE r.video_id = t.id AND r.kind = 'dislike')`,
	},
	{
		table:    "videos",
		column:   "comment_count",
		expected: `(SELECT COUNT(*) FROM comments c WHERE c.video_id = t.id)`,
	},
	{
		table:    "channels",
		column:   "total_subscribers",
		expected: `(SELECT COUNT(*) FROM channel_subscriptions s WHERE s.channel_id = t.id)`,
	},
}

// ReconcileCounters compares every counter against its relation table. With
// fix set, drifted rows are rewritten in a single transaction.
func ReconcileCounters(ctx context.Context, db *sql.DB, fix bool) ([]CounterDrift, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	report := make([]CounterDrift, 0, len(counterChecks))
	for _, check := range counterChecks {
		drift := CounterDrift{Table: check.table, Column: check.column}

		countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s t WHERE t.%s <> %s`,
			check.table, check.column, check.expected)
		if err := tx.QueryRowContext(ctx, countQuery).Scan(&drift.Drifted); err != nil {
			return nil, fmt.Errorf("failed to count drift for %s.%s: %w", check.table, check.column, err)
		}

		if fix && drift.Drifted > 0 {
			updateQuery := fmt.Sprintf(`UPDATE %s t SET %s = %s, updated_at = NOW() WHERE t.%s <> %s`,
				check.table, check.column, check.expected, check.column, check.expected)
			if _, err := tx.ExecContext(ctx, updateQuery); err != nil {
				return nil, fmt.Errorf("failed to fix %s.%s: %w", check.table, check.column, err)
			}
			drift.Fixed = true
		}

		report = append(report, drift)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return report, nil
}
