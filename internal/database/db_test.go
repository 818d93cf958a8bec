package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = mockDB.Close()
	})
	return sqlx.NewDb(mockDB, "mysql"), mock
}

func TestRunInTx(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(mock sqlmock.Sqlmock)
		fn      func(ctx context.Context, tx *sqlx.Tx) error
		wantErr string
	}{
		{
			name: "commits on success",
			prepare: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE history").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				_, err := tx.ExecContext(ctx, "UPDATE history SET solved_count = 1")
				return err
			},
		},
		{
			name: "rolls back when fn fails",
			prepare: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return errors.New("row conflict")
			},
			wantErr: "row conflict",
		},
		{
			name: "begin failure",
			prepare: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("connection refused"))
			},
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			wantErr: "begin transaction",
		},
		{
			name: "commit failure",
			prepare: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errors.New("server has gone away"))
			},
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			wantErr: "commit transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.prepare(mock)

			err := RunInTx(context.Background(), db, tt.fn)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
