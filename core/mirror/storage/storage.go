package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/schema"
	"github.com/zircuit-labs/zkr-go-common/xerrors/stacktrace"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/mirror/model"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"

	_ "github.com/lib/pq"
)

//go:generate go tool mockgen -source storage.go -destination mock_storage.go -package storage

var (
	// ErrNotFound is returned when no row matches a lookup.
	ErrNotFound = errors.New("not found")

	// ErrUnknownDriver is returned by NewStorage for an unsupported driver name.
	ErrUnknownDriver = errors.New("unknown database driver")
)

// Storage interface defines the read operations the execution engine needs
// from the mirror database. Every range-aware lookup takes the range the
// request executes against; a nil range reads the current state.
type Storage interface {
	Ping(ctx context.Context) error

	EarliestRecordFile(ctx context.Context) (*model.RecordFile, error)
	LatestRecordFile(ctx context.Context) (*model.RecordFile, error)
	RecordFileByIndex(ctx context.Context, index int64) (*model.RecordFile, error)
	RecordFileByTimestamp(ctx context.Context, timestamp int64) (*model.RecordFile, error)

	EntityByID(ctx context.Context, id int64, rng *types.HistoricalRange) (*model.EntityFields, error)
	EntityByEvmAddress(ctx context.Context, address []byte, rng *types.HistoricalRange) (*model.EntityFields, error)
	RuntimeBytecode(ctx context.Context, contractID int64) ([]byte, error)
	StorageSlot(ctx context.Context, contractID int64, slot []byte, rng *types.HistoricalRange) ([]byte, error)

	Token(ctx context.Context, tokenID int64, rng *types.HistoricalRange) (*model.TokenFields, error)
	TokenAccount(ctx context.Context, accountID, tokenID int64, rng *types.HistoricalRange) (*model.TokenAccountFields, error)
	TokenAllowance(ctx context.Context, owner, spender, tokenID int64, rng *types.HistoricalRange) (*model.TokenAllowanceFields, error)
	ExchangeRate(ctx context.Context, rng *types.HistoricalRange) (*model.ExchangeRate, error)

	TransactionHash(ctx context.Context, hash []byte) (*model.TransactionHash, error)
	ContractResult(ctx context.Context, consensusTimestamp int64) (*model.ContractResult, error)
	EthereumTransaction(ctx context.Context, consensusTimestamp int64) (*model.EthereumTransaction, error)
}

// NewStorage initializes a storage backend based on the provided Config.
// If DSN is empty, it uses an in-memory storage; otherwise, it attempts to connect to the database.
func NewStorage(ctx context.Context, config Config) (Storage, error) {
	var store Storage
	if config.DSN == "" {
		store = NewMemory() // Use in-memory storage if no DSN is provided.
	} else {
		db, dialect, err := open(config)
		if err != nil {
			return nil, err
		}
		if config.MaxOpenConns > 0 {
			db.SetMaxOpenConns(config.MaxOpenConns)
		}
		if config.MaxIdleConns > 0 {
			db.SetMaxIdleConns(config.MaxIdleConns)
		}
		sqlStore := NewSQL(db, dialect)
		if err := sqlStore.Ping(ctx); err != nil {
			return nil, stacktrace.Wrap(err)
		}
		store = sqlStore
	}

	if config.CacheSizeMB > 0 {
		store = NewCached(store, config.CacheSizeMB*1024*1024)
	}
	return store, nil
}

func open(config Config) (*sql.DB, schema.Dialect, error) {
	switch config.Driver {
	case "", DriverPostgres:
		db, err := sql.Open("postgres", config.DSN)
		if err != nil {
			return nil, nil, stacktrace.Wrap(err)
		}
		return db, pgdialect.New(), nil
	case DriverPG:
		return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(config.DSN))), pgdialect.New(), nil
	case DriverSQLite:
		db, err := sql.Open(sqliteshim.ShimName, config.DSN)
		if err != nil {
			return nil, nil, stacktrace.Wrap(err)
		}
		return db, sqlitedialect.New(), nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownDriver, config.Driver)
	}
}
