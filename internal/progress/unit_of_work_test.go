package progress

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/openings/internal/srs"
)

func TestDBUnitOfWork_Do(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
	}{
		{
			name: "every write shares one transaction",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO completions").
					WithArgs(int64(1), "giuoco-piano", now).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery("SELECT .+ FROM recall_progress p WHERE .+ FOR UPDATE").
					WithArgs(int64(1), "giuoco-piano").
					WillReturnRows(sqlmock.NewRows(recallRowColumns))
				mock.ExpectExec("INSERT INTO recall_progress").
					WithArgs(int64(1), "giuoco-piano", 2.5, 1.0, 1, now.Add(24*time.Hour)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "a failed write rolls back the earlier ones",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO completions").
					WithArgs(int64(1), "giuoco-piano", now).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery("SELECT .+ FROM recall_progress p WHERE .+ FOR UPDATE").
					WillReturnError(fmt.Errorf("lock wait timeout"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setupMock(mock)

			err := NewDBUnitOfWork(db).Do(context.Background(), func(ctx context.Context, repos Repositories) error {
				if err := repos.Completions.Increment(ctx, 1, "giuoco-piano", now); err != nil {
					return err
				}
				_, err := repos.Recall.Update(ctx, 1, "giuoco-piano", func(current *srs.RecallRecord) (*srs.RecallRecord, error) {
					next := srs.ApplyRecallOutcome(current, false, now)
					return &next, nil
				})
				return err
			})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
