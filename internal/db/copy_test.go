package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"snapshot_id", "name", "payload"}
	mock.ExpectCopyFrom(pgx.Identifier{"snapshot_tables"}, cols).
		WillReturnResult(2)

	rows := [][]any{
		{"snap-1", "orders", []byte(`{}`)},
		{"snap-1", "sellers", []byte(`{}`)},
	}
	n, err := CopyFrom(context.Background(), mock, "snapshot_tables", cols, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// No rows means no round trip at all.
	n, err := CopyFrom(context.Background(), mock, "snapshot_tables", []string{"name"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"name"}
	mock.ExpectCopyFrom(pgx.Identifier{"widgets"}, cols).
		WillReturnError(fmt.Errorf("permission denied"))

	_, err = CopyFrom(context.Background(), mock, "widgets", cols, [][]any{{"x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db: COPY INTO widgets")
}
