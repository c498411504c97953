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

var drillRowColumns = []string{
	"user_id", "item_id", "ease_factor", "interval_days", "due_date", "streak",
	"total_attempts", "total_successes", "last_result",
}

func TestDBDrillRepository_FindByItems(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		itemIDs   []string
		setupMock func(mock sqlmock.Sqlmock)
		want      map[string]srs.DrillRecord
		wantErr   bool
	}{
		{
			name:      "no items does not query",
			setupMock: func(mock sqlmock.Sqlmock) {},
			want:      map[string]srs.DrillRecord{},
		},
		{
			name:    "keys records by item",
			itemIDs: []string{"giuoco-piano", "evans-gambit"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .+ FROM drill_progress WHERE user_id = \\? AND item_id IN \\(\\?, \\?\\)").
					WithArgs(int64(1), "giuoco-piano", "evans-gambit").
					WillReturnRows(sqlmock.NewRows(drillRowColumns).
						AddRow(1, "giuoco-piano", 2.6, 1.0, now, 1, 2, 1, "success"))
			},
			want: map[string]srs.DrillRecord{
				"giuoco-piano": {
					EaseFactor: 2.6, IntervalDays: 1, DueDate: now, Streak: 1,
					TotalAttempts: 2, TotalSuccesses: 1, LastResult: srs.ResultSuccess,
				},
			},
		},
		{
			name:    "db error",
			itemIDs: []string{"giuoco-piano"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .+ FROM drill_progress").WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setupMock(mock)

			got, err := NewDBDrillRepository(db).FindByItems(context.Background(), 1, tt.itemIDs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBDrillRepository_Update(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM drill_progress WHERE .+ FOR UPDATE").
		WithArgs(int64(1), "giuoco-piano").
		WillReturnRows(sqlmock.NewRows(drillRowColumns))
	mock.ExpectExec("INSERT INTO drill_progress .+ ON DUPLICATE KEY UPDATE").
		WithArgs(int64(1), "giuoco-piano", sqlmock.AnyArg(), 0.0, now.Add(time.Hour), 0, 1, 0, "failure").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := NewDBDrillRepository(db).Update(context.Background(), 1, "giuoco-piano",
		func(current *srs.DrillRecord) (*srs.DrillRecord, error) {
			assert.Nil(t, current)
			next := srs.ApplyDrillOutcome(current, false, now)
			return &next, nil
		})
	require.NoError(t, err)
	assert.InDelta(t, 2.3, got.EaseFactor, 1e-9)
	assert.Equal(t, srs.ResultFailure, got.LastResult)
	assert.NoError(t, mock.ExpectationsWereMet())
}
