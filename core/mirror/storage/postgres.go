package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/schema"
	"github.com/zircuit-labs/zkr-go-common/xerrors/stacktrace"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/mirror/model"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
)

type (
	// SQL struct provides Bun backed read access to the mirror database.
	SQL struct {
		db *bun.DB
	}

	fielder[F any] interface {
		Fields() *F
	}
)

var _ Storage = (*SQL)(nil)

// NewPostgres initializes and returns a new instance of SQL storage speaking the Postgres dialect.
func NewPostgres(db *sql.DB) *SQL {
	return NewSQL(db, pgdialect.New())
}

// NewSQL wraps an open database handle with the given dialect.
func NewSQL(db *sql.DB, dialect schema.Dialect) *SQL {
	return &SQL{db: bun.NewDB(db, dialect)}
}

// DB exposes the underlying bun handle, mainly for fixtures and migrations.
func (p *SQL) DB() *bun.DB {
	return p.db
}

// Close closes the underlying database handle.
func (p *SQL) Close() error {
	return p.db.Close()
}

// Ping checks the connection to the database.
func (p *SQL) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *SQL) EarliestRecordFile(ctx context.Context) (*model.RecordFile, error) {
	var rf model.RecordFile
	err := p.db.NewSelect().Model(&rf).Order("index ASC").Limit(1).Scan(ctx)
	return scanOne(&rf, err)
}

func (p *SQL) LatestRecordFile(ctx context.Context) (*model.RecordFile, error) {
	var rf model.RecordFile
	err := p.db.NewSelect().Model(&rf).Order("index DESC").Limit(1).Scan(ctx)
	return scanOne(&rf, err)
}

func (p *SQL) RecordFileByIndex(ctx context.Context, index int64) (*model.RecordFile, error) {
	var rf model.RecordFile
	err := p.db.NewSelect().Model(&rf).Where("? = ?", bun.Ident("index"), index).Scan(ctx)
	return scanOne(&rf, err)
}

func (p *SQL) RecordFileByTimestamp(ctx context.Context, timestamp int64) (*model.RecordFile, error) {
	var rf model.RecordFile
	err := p.db.NewSelect().Model(&rf).
		Where("consensus_start <= ?", timestamp).
		Where("consensus_end >= ?", timestamp).
		Limit(1).
		Scan(ctx)
	return scanOne(&rf, err)
}

func (p *SQL) EntityByID(ctx context.Context, id int64, rng *types.HistoricalRange) (*model.EntityFields, error) {
	return findVersion[model.Entity, model.EntityHistory, model.EntityFields](ctx, p.db, rng, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id = ?", id)
	})
}

func (p *SQL) EntityByEvmAddress(ctx context.Context, address []byte, rng *types.HistoricalRange) (*model.EntityFields, error) {
	return findVersion[model.Entity, model.EntityHistory, model.EntityFields](ctx, p.db, rng, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("evm_address = ?", address)
	})
}

func (p *SQL) RuntimeBytecode(ctx context.Context, contractID int64) ([]byte, error) {
	var c model.Contract
	err := p.db.NewSelect().Model(&c).Column("runtime_bytecode").Where("id = ?", contractID).Scan(ctx)
	if _, err := scanOne(&c, err); err != nil {
		return nil, err
	}
	return c.RuntimeBytecode, nil
}

// StorageSlot returns the value of a slot. Historical reads replay the
// state change log up to the end of the range.
func (p *SQL) StorageSlot(ctx context.Context, contractID int64, slot []byte, rng *types.HistoricalRange) ([]byte, error) {
	if rng == nil {
		var cs model.ContractState
		err := p.db.NewSelect().Model(&cs).
			Where("contract_id = ?", contractID).
			Where("slot = ?", slot).
			Scan(ctx)
		if _, err := scanOne(&cs, err); err != nil {
			return nil, err
		}
		return cs.Value, nil
	}

	var change model.ContractStateChange
	err := p.db.NewSelect().Model(&change).
		Where("contract_id = ?", contractID).
		Where("slot = ?", slot).
		Where("consensus_timestamp < ?", rng.End).
		Where("value_written IS NOT NULL").
		Order("consensus_timestamp DESC").
		Limit(1).
		Scan(ctx)
	if _, err := scanOne(&change, err); err != nil {
		return nil, err
	}
	return change.ValueWritten, nil
}

func (p *SQL) Token(ctx context.Context, tokenID int64, rng *types.HistoricalRange) (*model.TokenFields, error) {
	return findVersion[model.Token, model.TokenHistory, model.TokenFields](ctx, p.db, rng, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("token_id = ?", tokenID)
	})
}

func (p *SQL) TokenAccount(ctx context.Context, accountID, tokenID int64, rng *types.HistoricalRange) (*model.TokenAccountFields, error) {
	return findVersion[model.TokenAccount, model.TokenAccountHistory, model.TokenAccountFields](ctx, p.db, rng, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("account_id = ?", accountID).Where("token_id = ?", tokenID)
	})
}

func (p *SQL) TokenAllowance(ctx context.Context, owner, spender, tokenID int64, rng *types.HistoricalRange) (*model.TokenAllowanceFields, error) {
	return findVersion[model.TokenAllowance, model.TokenAllowanceHistory, model.TokenAllowanceFields](ctx, p.db, rng, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("owner = ?", owner).Where("spender = ?", spender).Where("token_id = ?", tokenID)
	})
}

// ExchangeRate returns the rate in force at the end of the range, or the
// most recent one for a nil range.
func (p *SQL) ExchangeRate(ctx context.Context, rng *types.HistoricalRange) (*model.ExchangeRate, error) {
	var rate model.ExchangeRate
	query := p.db.NewSelect().Model(&rate)
	if rng != nil {
		query = query.Where("consensus_timestamp < ?", rng.End)
	}
	err := query.Order("consensus_timestamp DESC").Limit(1).Scan(ctx)
	return scanOne(&rate, err)
}

func (p *SQL) TransactionHash(ctx context.Context, hash []byte) (*model.TransactionHash, error) {
	var th model.TransactionHash
	err := p.db.NewSelect().Model(&th).Where("hash = ?", hash).Limit(1).Scan(ctx)
	return scanOne(&th, err)
}

func (p *SQL) ContractResult(ctx context.Context, consensusTimestamp int64) (*model.ContractResult, error) {
	var cr model.ContractResult
	err := p.db.NewSelect().Model(&cr).Where("consensus_timestamp = ?", consensusTimestamp).Scan(ctx)
	return scanOne(&cr, err)
}

func (p *SQL) EthereumTransaction(ctx context.Context, consensusTimestamp int64) (*model.EthereumTransaction, error) {
	var et model.EthereumTransaction
	err := p.db.NewSelect().Model(&et).Where("consensus_timestamp = ?", consensusTimestamp).Scan(ctx)
	return scanOne(&et, err)
}

// findVersion reads the version of a row valid at the end of rng. The
// current table is consulted first; a row there whose range started after
// the requested range falls back to the history table, where the version
// must have started before and ended at or after the range end.
func findVersion[C, H, F any, PC interface {
	*C
	fielder[F]
}, PH interface {
	*H
	fielder[F]
}](ctx context.Context, db bun.IDB, rng *types.HistoricalRange, where func(*bun.SelectQuery) *bun.SelectQuery) (*F, error) {
	current := PC(new(C))
	query := where(db.NewSelect().Model(current))
	if rng != nil {
		query = query.Where("timestamp_range_start < ?", rng.End)
	}
	err := query.Limit(1).Scan(ctx)
	if err == nil {
		return current.Fields(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, stacktrace.Wrap(err)
	}
	if rng == nil {
		return nil, ErrNotFound
	}

	historical := PH(new(H))
	err = where(db.NewSelect().Model(historical)).
		Where("timestamp_range_start < ?", rng.End).
		Where("timestamp_range_end >= ?", rng.End).
		Order("timestamp_range_start DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	return historical.Fields(), nil
}

func scanOne[T any](row *T, err error) (*T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	return row, nil
}
