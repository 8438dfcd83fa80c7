package dbutil

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestFinalizeRebindsPlaceholders(t *testing.T) {
	query, args := Finalize("SELECT * FROM funds WHERE id = ? AND mtime > ?", []interface{}{"f1", 10})
	require.Equal(t, "SELECT * FROM funds WHERE id = $1 AND mtime > $2", query)
	require.Equal(t, []interface{}{"f1", 10}, args)
}

func TestFinalizeRewritesMySQLLimit(t *testing.T) {
	query, args := Finalize("SELECT * FROM funds WHERE fund_id = ? LIMIT ?,?", []interface{}{"f1", 20, 10})
	require.Equal(t, "SELECT * FROM funds WHERE fund_id = $1 LIMIT $2 OFFSET $3", query)
	// gendry emits LIMIT offset,count; Postgres wants count first.
	require.Equal(t, []interface{}{"f1", 10, 20}, args)
}

func TestIsConflict(t *testing.T) {
	require.True(t, IsConflict(&pq.Error{Code: "23505"}))
	require.False(t, IsConflict(&pq.Error{Code: "23503"}))
	require.False(t, IsConflict(nil))
}
