package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/mirror/model"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
)

type (
	// Memory struct provides an in-memory twin of the mirror database. Versioned
	// rows are kept as lists where the entry with an open range end is the
	// current version.
	Memory struct {
		recordFiles     []*model.RecordFile
		entities        map[int64][]*model.EntityFields
		bytecode        map[int64][]byte
		slots           map[slotKey][]*model.ContractStateChange
		tokens          map[int64][]*model.TokenFields
		tokenAccounts   map[[2]int64][]*model.TokenAccountFields
		tokenAllowances map[[3]int64][]*model.TokenAllowanceFields
		exchangeRates   []*model.ExchangeRate
		txHashes        map[string]*model.TransactionHash
		contractResults map[int64]*model.ContractResult
		ethereumTxs     map[int64]*model.EthereumTransaction
		// a single lock for every map, this storage backs tests and local runs only
		mu sync.RWMutex
	}

	slotKey struct {
		contractID int64
		slot       string
	}
)

var _ Storage = (*Memory)(nil)

// NewMemory initializes and returns a new instance of Memory storage.
func NewMemory() *Memory {
	return &Memory{
		entities:        map[int64][]*model.EntityFields{},
		bytecode:        map[int64][]byte{},
		slots:           map[slotKey][]*model.ContractStateChange{},
		tokens:          map[int64][]*model.TokenFields{},
		tokenAccounts:   map[[2]int64][]*model.TokenAccountFields{},
		tokenAllowances: map[[3]int64][]*model.TokenAllowanceFields{},
		txHashes:        map[string]*model.TransactionHash{},
		contractResults: map[int64]*model.ContractResult{},
		ethereumTxs:     map[int64]*model.EthereumTransaction{},
	}
}

func (m *Memory) Ping(context.Context) error {
	return nil
}

// AddRecordFile inserts a record file, keeping the list ordered by index.
func (m *Memory) AddRecordFile(rf *model.RecordFile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordFiles = append(m.recordFiles, rf)
	sort.Slice(m.recordFiles, func(i, j int) bool { return m.recordFiles[i].Index < m.recordFiles[j].Index })
}

// AddEntity inserts one version of an entity.
func (m *Memory) AddEntity(e *model.EntityFields) {
	m.mu.Lock()
	m.entities[e.ID] = append(m.entities[e.ID], e)
	m.mu.Unlock()
}

// AddContract stores the runtime bytecode of a contract.
func (m *Memory) AddContract(contractID int64, code []byte) {
	m.mu.Lock()
	m.bytecode[contractID] = code
	m.mu.Unlock()
}

// AddStorageChange records a write to a slot at the given consensus timestamp.
func (m *Memory) AddStorageChange(contractID int64, slot, value []byte, timestamp int64) {
	key := slotKey{contractID: contractID, slot: string(slot)}
	m.mu.Lock()
	m.slots[key] = append(m.slots[key], &model.ContractStateChange{
		ConsensusTimestamp: timestamp,
		ContractID:         contractID,
		Slot:               slot,
		ValueWritten:       value,
	})
	m.mu.Unlock()
}

func (m *Memory) AddToken(t *model.TokenFields) {
	m.mu.Lock()
	m.tokens[t.TokenID] = append(m.tokens[t.TokenID], t)
	m.mu.Unlock()
}

func (m *Memory) AddTokenAccount(ta *model.TokenAccountFields) {
	key := [2]int64{ta.AccountID, ta.TokenID}
	m.mu.Lock()
	m.tokenAccounts[key] = append(m.tokenAccounts[key], ta)
	m.mu.Unlock()
}

func (m *Memory) AddTokenAllowance(a *model.TokenAllowanceFields) {
	key := [3]int64{a.Owner, a.Spender, a.TokenID}
	m.mu.Lock()
	m.tokenAllowances[key] = append(m.tokenAllowances[key], a)
	m.mu.Unlock()
}

func (m *Memory) AddExchangeRate(rate *model.ExchangeRate) {
	m.mu.Lock()
	m.exchangeRates = append(m.exchangeRates, rate)
	m.mu.Unlock()
}

// AddTransaction indexes a contract transaction by hash. The ethereum body is
// optional.
func (m *Memory) AddTransaction(th *model.TransactionHash, cr *model.ContractResult, et *model.EthereumTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if th != nil {
		m.txHashes[string(th.Hash)] = th
	}
	if cr != nil {
		m.contractResults[cr.ConsensusTimestamp] = cr
	}
	if et != nil {
		m.ethereumTxs[et.ConsensusTimestamp] = et
	}
}

func (m *Memory) EarliestRecordFile(context.Context) (*model.RecordFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.recordFiles) == 0 {
		return nil, ErrNotFound
	}
	return m.recordFiles[0], nil
}

func (m *Memory) LatestRecordFile(context.Context) (*model.RecordFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.recordFiles) == 0 {
		return nil, ErrNotFound
	}
	return m.recordFiles[len(m.recordFiles)-1], nil
}

func (m *Memory) RecordFileByIndex(_ context.Context, index int64) (*model.RecordFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rf := range m.recordFiles {
		if rf.Index == index {
			return rf, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) RecordFileByTimestamp(_ context.Context, timestamp int64) (*model.RecordFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rf := range m.recordFiles {
		if rf.ConsensusStart <= timestamp && timestamp <= rf.ConsensusEnd {
			return rf, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) EntityByID(_ context.Context, id int64, rng *types.HistoricalRange) (*model.EntityFields, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return pickVersion(m.entities[id], rng, entityBounds)
}

func (m *Memory) EntityByEvmAddress(_ context.Context, address []byte, rng *types.HistoricalRange) (*model.EntityFields, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, versions := range m.entities {
		if len(versions) == 0 || string(versions[0].EvmAddress) != string(address) {
			continue
		}
		return pickVersion(versions, rng, entityBounds)
	}
	return nil, ErrNotFound
}

func (m *Memory) RuntimeBytecode(_ context.Context, contractID int64) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	code, ok := m.bytecode[contractID]
	if !ok {
		return nil, ErrNotFound
	}
	return code, nil
}

func (m *Memory) StorageSlot(_ context.Context, contractID int64, slot []byte, rng *types.HistoricalRange) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *model.ContractStateChange
	for _, change := range m.slots[slotKey{contractID: contractID, slot: string(slot)}] {
		if change.ValueWritten == nil {
			continue
		}
		if rng != nil && change.ConsensusTimestamp >= rng.End {
			continue
		}
		if latest == nil || change.ConsensusTimestamp > latest.ConsensusTimestamp {
			latest = change
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest.ValueWritten, nil
}

func (m *Memory) Token(_ context.Context, tokenID int64, rng *types.HistoricalRange) (*model.TokenFields, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return pickVersion(m.tokens[tokenID], rng, func(t *model.TokenFields) (int64, *int64) {
		return t.TimestampRangeStart, t.TimestampRangeEnd
	})
}

func (m *Memory) TokenAccount(_ context.Context, accountID, tokenID int64, rng *types.HistoricalRange) (*model.TokenAccountFields, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return pickVersion(m.tokenAccounts[[2]int64{accountID, tokenID}], rng, func(ta *model.TokenAccountFields) (int64, *int64) {
		return ta.TimestampRangeStart, ta.TimestampRangeEnd
	})
}

func (m *Memory) TokenAllowance(_ context.Context, owner, spender, tokenID int64, rng *types.HistoricalRange) (*model.TokenAllowanceFields, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return pickVersion(m.tokenAllowances[[3]int64{owner, spender, tokenID}], rng, func(a *model.TokenAllowanceFields) (int64, *int64) {
		return a.TimestampRangeStart, a.TimestampRangeEnd
	})
}

func (m *Memory) ExchangeRate(_ context.Context, rng *types.HistoricalRange) (*model.ExchangeRate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *model.ExchangeRate
	for _, rate := range m.exchangeRates {
		if rng != nil && rate.ConsensusTimestamp >= rng.End {
			continue
		}
		if latest == nil || rate.ConsensusTimestamp > latest.ConsensusTimestamp {
			latest = rate
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (m *Memory) TransactionHash(_ context.Context, hash []byte) (*model.TransactionHash, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	th, ok := m.txHashes[string(hash)]
	if !ok {
		return nil, ErrNotFound
	}
	return th, nil
}

func (m *Memory) ContractResult(_ context.Context, consensusTimestamp int64) (*model.ContractResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cr, ok := m.contractResults[consensusTimestamp]
	if !ok {
		return nil, ErrNotFound
	}
	return cr, nil
}

func (m *Memory) EthereumTransaction(_ context.Context, consensusTimestamp int64) (*model.EthereumTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	et, ok := m.ethereumTxs[consensusTimestamp]
	if !ok {
		return nil, ErrNotFound
	}
	return et, nil
}

func entityBounds(e *model.EntityFields) (int64, *int64) {
	return e.TimestampRangeStart, e.TimestampRangeEnd
}

// pickVersion applies the same rule as the SQL lookups: the open version wins
// when it started before the range end, otherwise the closed version that
// started latest before the range end and ended at or after it.
func pickVersion[F any](versions []*F, rng *types.HistoricalRange, bounds func(*F) (int64, *int64)) (*F, error) {
	var best *F
	var bestStart int64
	for _, v := range versions {
		start, end := bounds(v)
		if end == nil {
			if rng == nil || start < rng.End {
				cpy := *v
				return &cpy, nil
			}
			continue
		}
		if rng == nil || start >= rng.End || *end < rng.End {
			continue
		}
		if best == nil || start > bestStart {
			best, bestStart = v, start
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	cpy := *best
	return &cpy, nil
}
