package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
)

func TestPostgresLatestRecordFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	query := `SELECT .* FROM "record_file" AS "r" ORDER BY "index" DESC LIMIT 1`

	tests := []struct {
		name      string
		mockSetup func(mock sqlmock.Sqlmock)
		want      int64
		wantErr   error
	}{
		{
			name: "Latest record file",
			mockSetup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"index", "consensus_start", "consensus_end", "hash"}).
					AddRow(42, 100, 199, "0x01")
				mock.ExpectQuery(query).WillReturnRows(rows)
			},
			want: 42,
		},
		{
			name: "Empty table",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WillReturnError(sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "SQL Error",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WillReturnError(errors.New("real sql error"))
			},
			wantErr: errors.New("real sql error"),
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, mock, err := sqlmock.New()
			assert.NoError(t, err)

			tt.mockSetup(mock)

			pg := NewPostgres(db)
			result, err := pg.LatestRecordFile(ctx)

			switch {
			case errors.Is(tt.wantErr, ErrNotFound):
				assert.ErrorIs(t, err, ErrNotFound)
			case tt.wantErr != nil:
				assert.ErrorContains(t, err, tt.wantErr.Error())
				assert.NotErrorIs(t, err, ErrNotFound)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.want, result.Index)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRecordFileByIndexQuotesColumn(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	mock.ExpectQuery(`SELECT .* FROM "record_file" AS "r" WHERE \("index" = 7\)`).
		WillReturnRows(sqlmock.NewRows([]string{"index"}).AddRow(7))

	rf, err := NewPostgres(db).RecordFileByIndex(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), rf.Index)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresEntityByID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rng := &types.HistoricalRange{Index: 1, Start: 100, End: 200}
	current := `SELECT .* FROM "entity" AS "e" WHERE \(id = 1001\) AND \(timestamp_range_start < 200\) LIMIT 1`
	history := `SELECT .* FROM "entity_history" AS "e" WHERE \(id = 1001\) AND \(timestamp_range_start < 200\) AND \(timestamp_range_end >= 200\) ORDER BY "timestamp_range_start" DESC LIMIT 1`
	columns := []string{"id", "balance", "timestamp_range_start"}

	tests := []struct {
		name        string
		rng         *types.HistoricalRange
		mockSetup   func(mock sqlmock.Sqlmock)
		wantBalance int64
		wantErr     error
	}{
		{
			name: "Current version overlaps the range",
			rng:  rng,
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(current).WillReturnRows(sqlmock.NewRows(columns).AddRow(1001, 20, 150))
			},
			wantBalance: 20,
		},
		{
			name: "Falls back to history",
			rng:  rng,
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(current).WillReturnRows(sqlmock.NewRows(columns))
				mock.ExpectQuery(history).WillReturnRows(sqlmock.NewRows(columns).AddRow(1001, 10, 100))
			},
			wantBalance: 10,
		},
		{
			name: "Created after the range",
			rng:  rng,
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(current).WillReturnRows(sqlmock.NewRows(columns))
				mock.ExpectQuery(history).WillReturnRows(sqlmock.NewRows(columns))
			},
			wantErr: ErrNotFound,
		},
		{
			name: "Current state skips history",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM "entity" AS "e" WHERE \(id = 1001\) LIMIT 1`).
					WillReturnRows(sqlmock.NewRows(columns))
			},
			wantErr: ErrNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, mock, err := sqlmock.New()
			assert.NoError(t, err)

			tt.mockSetup(mock)

			result, err := NewPostgres(db).EntityByID(ctx, 1001, tt.rng)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantBalance, result.Balance)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStorageSlotHistorical(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	mock.ExpectQuery(`SELECT .* FROM "contract_state_change" AS "csc" WHERE \(contract_id = 1001\) AND \(slot = .*\) AND \(consensus_timestamp < 300\) AND \(value_written IS NOT NULL\) ORDER BY "consensus_timestamp" DESC LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"consensus_timestamp", "contract_id", "value_written"}).AddRow(260, 1001, []byte{0xbb}))

	value, err := NewPostgres(db).StorageSlot(context.Background(), 1001, []byte{0x01}, &types.HistoricalRange{Start: 200, End: 300})
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xbb}, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresExchangeRate(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	mock.ExpectQuery(`SELECT .* FROM "exchange_rate" AS "er" ORDER BY "consensus_timestamp" DESC LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"consensus_timestamp", "cent_equivalent", "hbar_equivalent"}).AddRow(280, 12, 1))

	rate, err := NewPostgres(db).ExchangeRate(context.Background(), nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(12), rate.CentEquivalent)
	assert.Equal(t, int64(1), rate.HbarEquivalent)
	assert.NoError(t, mock.ExpectationsWereMet())
}
