package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/mirror/model"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
)

const (
	fixtureContract = int64(1001)
	fixtureToken    = int64(2001)
)

var (
	fixtureSlot    = []byte{0x01}
	fixtureAddress = []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}
	fixtureTxHash  = []byte{0xab, 0xcd}
)

func ptr[T any](v T) *T { return &v }

// fixture describes a small history: three record files, an entity whose
// balance changes inside the second record, a token created in the second
// record and a slot written in the first and second records.
type fixture struct {
	recordFiles     []*model.RecordFile
	entities        []*model.EntityFields
	tokens          []*model.TokenFields
	tokenAccounts   []*model.TokenAccountFields
	changes         []*model.ContractStateChange
	contractState   []*model.ContractState
	exchangeRates   []*model.ExchangeRate
	txHash          *model.TransactionHash
	contractResult  *model.ContractResult
	ethereumTx      *model.EthereumTransaction
	runtimeBytecode []byte
}

func newFixture() *fixture {
	return &fixture{
		recordFiles: []*model.RecordFile{
			{Index: 1, ConsensusStart: 100, ConsensusEnd: 199, Hash: "0x01", Count: 1},
			{Index: 2, ConsensusStart: 200, ConsensusEnd: 299, Hash: "0x02", Count: 1},
			{Index: 3, ConsensusStart: 300, ConsensusEnd: 399, Hash: "0x03", Count: 1},
		},
		entities: []*model.EntityFields{
			{ID: fixtureContract, EvmAddress: fixtureAddress, Balance: 10, Type: model.EntityTypeContract, TimestampRangeStart: 100, TimestampRangeEnd: ptr(int64(250))},
			{ID: fixtureContract, EvmAddress: fixtureAddress, Balance: 20, Type: model.EntityTypeContract, TimestampRangeStart: 250},
		},
		tokens: []*model.TokenFields{
			{TokenID: fixtureToken, Name: "Token", Symbol: "TKN", Decimals: 8, TotalSupply: 1000, TimestampRangeStart: 250},
		},
		tokenAccounts: []*model.TokenAccountFields{
			{AccountID: fixtureContract, TokenID: fixtureToken, Associated: true, Balance: 7, FreezeStatus: model.FreezeUnfrozen, TimestampRangeStart: 260},
		},
		changes: []*model.ContractStateChange{
			{ConsensusTimestamp: 150, ContractID: fixtureContract, Slot: fixtureSlot, ValueWritten: []byte{0xaa}},
			{ConsensusTimestamp: 260, ContractID: fixtureContract, Slot: fixtureSlot, ValueWritten: []byte{0xbb}},
		},
		contractState: []*model.ContractState{
			{ContractID: fixtureContract, Slot: fixtureSlot, Value: []byte{0xbb}, CreatedTimestamp: 150, ModifiedTimestamp: 260},
		},
		exchangeRates: []*model.ExchangeRate{
			{ConsensusTimestamp: 120, CentEquivalent: 12, HbarEquivalent: 1, ExpirationTime: 1000},
			{ConsensusTimestamp: 280, CentEquivalent: 24, HbarEquivalent: 1, ExpirationTime: 2000},
		},
		txHash:          &model.TransactionHash{Hash: fixtureTxHash, ConsensusTimestamp: 350, PayerAccountID: 2},
		contractResult:  &model.ContractResult{ConsensusTimestamp: 350, ContractID: fixtureContract, GasLimit: 50000, GasUsed: 21000},
		ethereumTx:      &model.EthereumTransaction{ConsensusTimestamp: 350, Hash: fixtureTxHash, GasLimit: 50000, Nonce: 1},
		runtimeBytecode: []byte{0x60, 0x00},
	}
}

func (f *fixture) loadMemory() *Memory {
	m := NewMemory()
	for _, rf := range f.recordFiles {
		m.AddRecordFile(rf)
	}
	for _, e := range f.entities {
		m.AddEntity(e)
	}
	for _, tk := range f.tokens {
		m.AddToken(tk)
	}
	for _, ta := range f.tokenAccounts {
		m.AddTokenAccount(ta)
	}
	for _, c := range f.changes {
		m.AddStorageChange(c.ContractID, c.Slot, c.ValueWritten, c.ConsensusTimestamp)
	}
	for _, r := range f.exchangeRates {
		m.AddExchangeRate(r)
	}
	m.AddContract(fixtureContract, f.runtimeBytecode)
	m.AddTransaction(f.txHash, f.contractResult, f.ethereumTx)
	return m
}

func (f *fixture) loadSQLite(t *testing.T) *SQL {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqldb.Close() })

	store := NewSQL(sqldb, sqlitedialect.New())
	f.loadInto(t, store.DB())
	return store
}

var fixtureTables = []any{
	(*model.RecordFile)(nil),
	(*model.Entity)(nil),
	(*model.EntityHistory)(nil),
	(*model.Contract)(nil),
	(*model.ContractState)(nil),
	(*model.ContractStateChange)(nil),
	(*model.Token)(nil),
	(*model.TokenHistory)(nil),
	(*model.TokenAccount)(nil),
	(*model.TokenAccountHistory)(nil),
	(*model.TokenAllowance)(nil),
	(*model.TokenAllowanceHistory)(nil),
	(*model.ExchangeRate)(nil),
	(*model.TransactionHash)(nil),
	(*model.ContractResult)(nil),
	(*model.EthereumTransaction)(nil),
}

// loadInto creates the mirror tables and inserts the fixture rows.
func (f *fixture) loadInto(t *testing.T, db *bun.DB) {
	t.Helper()
	ctx := context.Background()

	for _, table := range fixtureTables {
		_, err := db.NewCreateTable().Model(table).Exec(ctx)
		require.NoError(t, err)
	}

	insert := func(row any) {
		_, err := db.NewInsert().Model(row).Exec(ctx)
		require.NoError(t, err)
	}
	for _, rf := range f.recordFiles {
		insert(rf)
	}
	for _, e := range f.entities {
		if e.TimestampRangeEnd == nil {
			insert(&model.Entity{EntityFields: *e})
		} else {
			insert(&model.EntityHistory{EntityFields: *e})
		}
	}
	for _, tk := range f.tokens {
		insert(&model.Token{TokenFields: *tk})
	}
	for _, ta := range f.tokenAccounts {
		insert(&model.TokenAccount{TokenAccountFields: *ta})
	}
	for _, c := range f.changes {
		insert(c)
	}
	for _, cs := range f.contractState {
		insert(cs)
	}
	for _, r := range f.exchangeRates {
		insert(r)
	}
	insert(&model.Contract{ID: fixtureContract, RuntimeBytecode: f.runtimeBytecode})
	insert(f.txHash)
	insert(f.contractResult)
	insert(f.ethereumTx)
}

func rangeOf(t *testing.T, store Storage, index int64) *types.HistoricalRange {
	t.Helper()
	rf, err := store.RecordFileByIndex(context.Background(), index)
	require.NoError(t, err)
	return rf.Range()
}

// checkStorageContract runs the same expectations against any backend loaded
// with the fixture.
func checkStorageContract(t *testing.T, store Storage) {
	t.Helper()
	ctx := context.Background()

	earliest, err := store.EarliestRecordFile(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), earliest.Index)

	latest, err := store.LatestRecordFile(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), latest.Index)

	_, err = store.RecordFileByIndex(ctx, 9)
	assert.ErrorIs(t, err, ErrNotFound)

	byTs, err := store.RecordFileByTimestamp(ctx, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byTs.Index)

	first, second, third := rangeOf(t, store, 1), rangeOf(t, store, 2), rangeOf(t, store, 3)

	e, err := store.EntityByID(ctx, fixtureContract, first)
	require.NoError(t, err)
	assert.Equal(t, int64(10), e.Balance)

	e, err = store.EntityByID(ctx, fixtureContract, third)
	require.NoError(t, err)
	assert.Equal(t, int64(20), e.Balance)

	e, err = store.EntityByID(ctx, fixtureContract, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(20), e.Balance)

	e, err = store.EntityByEvmAddress(ctx, fixtureAddress, first)
	require.NoError(t, err)
	assert.Equal(t, fixtureContract, e.ID)

	_, err = store.EntityByID(ctx, fixtureContract, &types.HistoricalRange{Start: 0, End: 100})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Token(ctx, fixtureToken, first)
	assert.ErrorIs(t, err, ErrNotFound)

	tk, err := store.Token(ctx, fixtureToken, second)
	require.NoError(t, err)
	assert.Equal(t, "TKN", tk.Symbol)

	_, err = store.TokenAccount(ctx, fixtureContract, fixtureToken, &types.HistoricalRange{Start: 200, End: 255})
	assert.ErrorIs(t, err, ErrNotFound)

	ta, err := store.TokenAccount(ctx, fixtureContract, fixtureToken, third)
	require.NoError(t, err)
	assert.Equal(t, int64(7), ta.Balance)

	_, err = store.TokenAllowance(ctx, fixtureContract, 1, fixtureToken, third)
	assert.ErrorIs(t, err, ErrNotFound)

	value, err := store.StorageSlot(ctx, fixtureContract, fixtureSlot, first)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa}, value)

	value, err = store.StorageSlot(ctx, fixtureContract, fixtureSlot, third)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xbb}, value)

	value, err = store.StorageSlot(ctx, fixtureContract, fixtureSlot, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xbb}, value)

	_, err = store.StorageSlot(ctx, fixtureContract, []byte{0x02}, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	rate, err := store.ExchangeRate(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, int64(12), rate.CentEquivalent)

	rate, err = store.ExchangeRate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(24), rate.CentEquivalent)

	code, err := store.RuntimeBytecode(ctx, fixtureContract)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x00}, code)

	th, err := store.TransactionHash(ctx, fixtureTxHash)
	require.NoError(t, err)
	assert.Equal(t, int64(350), th.ConsensusTimestamp)

	_, err = store.TransactionHash(ctx, []byte{0x01})
	assert.ErrorIs(t, err, ErrNotFound)

	cr, err := store.ContractResult(ctx, 350)
	require.NoError(t, err)
	assert.Equal(t, int64(21000), cr.GasUsed)

	et, err := store.EthereumTransaction(ctx, 350)
	require.NoError(t, err)
	assert.Equal(t, int64(1), et.Nonce)
}
