package state

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/stateless"
	"github.com/ethereum/go-ethereum/core/tracing"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/trie/utils"
	"github.com/holiman/uint256"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
)

var _ vm.StateDB = (*StateDB)(nil)

type slotKey struct {
	id   types.EntityID
	slot common.Hash
}

// StateDB is the mutable state one request executes against. Writes land in
// the frame on top of the open stack and never reach the underlying View.
// A StateDB is not safe for concurrent use.
type StateDB struct {
	view  *View
	arena *arena

	accounts  map[common.Address]*Account // nil values cache absent accounts
	codes     map[types.EntityID][]byte
	codeHash  map[common.Address]common.Hash
	committed map[slotKey]common.Hash

	refund uint64
	warm   []common.Address

	// selfDestructCall is set between the OnEnter and OnExit hooks of a
	// SELFDESTRUCT, which the interpreter reports without taking a snapshot.
	selfDestructCall bool

	err   error
	abort func()
}

// New creates an empty overlay over view.
func New(view *View) *StateDB {
	return &StateDB{
		view:      view,
		arena:     newArena(),
		accounts:  make(map[common.Address]*Account),
		codes:     make(map[types.EntityID][]byte),
		codeHash:  make(map[common.Address]common.Hash),
		committed: make(map[slotKey]common.Hash),
	}
}

// View returns the read only state under the overlay.
func (s *StateDB) View() *View {
	return s.view
}

// SetAbort registers fn to be called once, when the first infrastructure
// error is latched. Execution wires it to the interpreter's Cancel.
func (s *StateDB) SetAbort(fn func()) {
	s.abort = fn
}

// Error returns the first infrastructure error raised by a read.
func (s *StateDB) Error() error {
	return s.err
}

// Fail latches err as the request's infrastructure error. Only the first
// error is kept.
func (s *StateDB) Fail(err error) {
	if s.err != nil {
		return
	}
	s.err = err
	if s.abort != nil {
		s.abort()
	}
}

// SetWarmAddresses registers addresses Prepare adds to the access list in
// addition to the ones it is given, such as the system contracts.
func (s *StateDB) SetWarmAddresses(addrs []common.Address) {
	s.warm = addrs
}

// Depth is the number of open frames, the root included.
func (s *StateDB) Depth() int {
	return s.arena.depth()
}

// Hooks returns the tracing hooks that merge each successful call frame into
// its parent. They must be installed on every interpreter that runs against s.
func (s *StateDB) Hooks() *tracing.Hooks {
	return &tracing.Hooks{
		OnEnter: s.onEnter,
		OnExit:  s.onExit,
	}
}

func (s *StateDB) onEnter(depth int, typ byte, from, to common.Address, input []byte, gas uint64, value *big.Int) {
	if vm.OpCode(typ) == vm.SELFDESTRUCT {
		s.selfDestructCall = true
	}
}

func (s *StateDB) onExit(depth int, output []byte, gasUsed uint64, err error, reverted bool) {
	if s.selfDestructCall {
		s.selfDestructCall = false
		return
	}
	if reverted {
		return
	}
	// A successful call at depth d owns the frame at open[d+1]; open[0] is
	// the root.
	open := s.arena.open
	if len(open) != depth+2 {
		panic(fmt.Errorf("%w: call at depth %d returned with %d open frames", ErrFrameStackCorrupted, depth, len(open)))
	}
	s.Merge()
}

// Merge folds the top frame into its parent.
func (s *StateDB) Merge() {
	open := s.arena.open
	if len(open) < 2 {
		panic(fmt.Errorf("%w: cannot merge the root frame", ErrFrameStackCorrupted))
	}
	s.arena.merge(open[len(open)-2], open[len(open)-1])
}

// Snapshot opens a frame and returns its index.
func (s *StateDB) Snapshot() int {
	return s.arena.push(s.refund)
}

// RevertToSnapshot discards the frame id and all frames opened after it.
func (s *StateDB) RevertToSnapshot(id int) {
	discarded := s.arena.discard(id)
	s.refund = discarded.refund
}

// account loads the base account behind addr, caching absence.
func (s *StateDB) account(addr common.Address) *Account {
	if acc, ok := s.accounts[addr]; ok {
		return acc
	}
	acc, err := s.view.Account(addr)
	if err != nil {
		s.Fail(err)
		return nil
	}
	s.accounts[addr] = acc
	return acc
}

func (s *StateDB) touched(addr common.Address) bool {
	found := false
	s.arena.each(func(f *frame) bool {
		_, b := f.balances[addr]
		_, n := f.nonces[addr]
		_, c := f.codes[addr]
		found = b || n || c || f.created[addr]
		return found
	})
	return found
}

// createdHere reports whether addr was created during this execution.
func (s *StateDB) createdHere(addr common.Address) bool {
	found := false
	s.arena.each(func(f *frame) bool {
		found = f.created[addr]
		return found
	})
	return found
}

func (s *StateDB) CreateAccount(addr common.Address) {
	f := s.arena.top()
	f.markCreated(addr)
	if _, ok := f.balances[addr]; !ok {
		f.setBalance(addr, s.GetBalance(addr).Clone())
	}
}

func (s *StateDB) CreateContract(addr common.Address) {
	f := s.arena.top()
	if !s.createdHere(addr) {
		f.markCreated(addr)
	}
	f.markContract(addr)
}

func (s *StateDB) GetBalance(addr common.Address) *uint256.Int {
	var v *uint256.Int
	s.arena.each(func(f *frame) bool {
		v = f.balances[addr]
		return v != nil
	})
	if v != nil {
		return v
	}
	if acc := s.account(addr); acc != nil {
		return acc.Balance
	}
	return new(uint256.Int)
}

func (s *StateDB) SubBalance(addr common.Address, amount *uint256.Int, _ tracing.BalanceChangeReason) uint256.Int {
	prev := *s.GetBalance(addr)
	if amount.IsZero() {
		return prev
	}
	s.arena.top().setBalance(addr, new(uint256.Int).Sub(&prev, amount))
	return prev
}

func (s *StateDB) AddBalance(addr common.Address, amount *uint256.Int, _ tracing.BalanceChangeReason) uint256.Int {
	prev := *s.GetBalance(addr)
	if amount.IsZero() {
		if !s.Exist(addr) {
			s.arena.top().setBalance(addr, new(uint256.Int))
		}
		return prev
	}
	s.arena.top().setBalance(addr, new(uint256.Int).Add(&prev, amount))
	return prev
}

func (s *StateDB) GetNonce(addr common.Address) uint64 {
	var (
		n     uint64
		found bool
	)
	s.arena.each(func(f *frame) bool {
		n, found = f.nonces[addr]
		return found
	})
	if found {
		return n
	}
	if acc := s.account(addr); acc != nil {
		return acc.Nonce
	}
	return 0
}

func (s *StateDB) SetNonce(addr common.Address, nonce uint64) {
	s.arena.top().setNonce(addr, nonce)
}

func (s *StateDB) GetCode(addr common.Address) []byte {
	var (
		code  []byte
		found bool
	)
	s.arena.each(func(f *frame) bool {
		code, found = f.codes[addr]
		return found
	})
	if found {
		return code
	}
	if s.createdHere(addr) {
		return nil
	}
	acc := s.account(addr)
	if acc == nil || !acc.Contract {
		return nil
	}
	if code, ok := s.codes[acc.ID]; ok {
		return code
	}
	code, err := s.view.Code(acc.ID)
	if err != nil {
		s.Fail(err)
		return nil
	}
	s.codes[acc.ID] = code
	return code
}

func (s *StateDB) GetCodeSize(addr common.Address) int {
	return len(s.GetCode(addr))
}

func (s *StateDB) GetCodeHash(addr common.Address) common.Hash {
	if !s.Exist(addr) {
		return common.Hash{}
	}
	if h, ok := s.codeHash[addr]; ok && !s.touched(addr) {
		return h
	}
	code := s.GetCode(addr)
	h := ethtypes.EmptyCodeHash
	if len(code) > 0 {
		h = crypto.Keccak256Hash(code)
	}
	if !s.touched(addr) {
		s.codeHash[addr] = h
	}
	return h
}

func (s *StateDB) SetCode(addr common.Address, code []byte) {
	s.arena.top().setCode(addr, code)
}

func (s *StateDB) AddRefund(gas uint64) {
	s.refund += gas
}

func (s *StateDB) SubRefund(gas uint64) {
	if gas > s.refund {
		panic(fmt.Sprintf("refund counter below zero (gas: %d > refund: %d)", gas, s.refund))
	}
	s.refund -= gas
}

func (s *StateDB) GetRefund() uint64 {
	return s.refund
}

// baseStorage reads a slot from the View, the value committed before this
// execution began.
func (s *StateDB) baseStorage(addr common.Address, key common.Hash) common.Hash {
	acc := s.account(addr)
	if acc == nil || !acc.Contract {
		return common.Hash{}
	}
	k := slotKey{id: acc.ID, slot: key}
	if v, ok := s.committed[k]; ok {
		return v
	}
	v, err := s.view.Storage(acc.ID, key)
	if err != nil {
		s.Fail(err)
		return common.Hash{}
	}
	s.committed[k] = v
	return v
}

func (s *StateDB) GetCommittedState(addr common.Address, key common.Hash) common.Hash {
	if s.createdHere(addr) {
		return common.Hash{}
	}
	return s.baseStorage(addr, key)
}

func (s *StateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	var (
		v       common.Hash
		found   bool
		cleared bool
	)
	s.arena.each(func(f *frame) bool {
		if v, found = f.storage[addr][key]; found {
			return true
		}
		cleared = f.created[addr]
		return cleared
	})
	if found || cleared {
		return v
	}
	return s.baseStorage(addr, key)
}

func (s *StateDB) SetState(addr common.Address, key, value common.Hash) common.Hash {
	prev := s.GetState(addr, key)
	setSlot(&s.arena.top().storage, addr, key, value)
	return prev
}

// GetStorageRoot is only consulted for address collision checks. Storage of
// an existing contract is always accompanied by code, so the empty root is
// reported for every account.
func (s *StateDB) GetStorageRoot(common.Address) common.Hash {
	return common.Hash{}
}

func (s *StateDB) GetTransientState(addr common.Address, key common.Hash) common.Hash {
	var v common.Hash
	s.arena.each(func(f *frame) bool {
		var ok bool
		v, ok = f.transient[addr][key]
		return ok
	})
	return v
}

func (s *StateDB) SetTransientState(addr common.Address, key, value common.Hash) {
	setSlot(&s.arena.top().transient, addr, key, value)
}

func (s *StateDB) SelfDestruct(addr common.Address) uint256.Int {
	if !s.Exist(addr) {
		return uint256.Int{}
	}
	prev := *s.GetBalance(addr)
	f := s.arena.top()
	f.markDestructed(addr)
	f.setBalance(addr, new(uint256.Int))
	return prev
}

func (s *StateDB) HasSelfDestructed(addr common.Address) bool {
	found := false
	s.arena.each(func(f *frame) bool {
		found = f.destructed[addr]
		return found
	})
	return found
}

// SelfDestruct6780 only destructs contracts created during this execution.
func (s *StateDB) SelfDestruct6780(addr common.Address) (uint256.Int, bool) {
	if !s.Exist(addr) {
		return uint256.Int{}, false
	}
	created := false
	s.arena.each(func(f *frame) bool {
		created = f.contracts[addr]
		return created
	})
	if created {
		return s.SelfDestruct(addr), true
	}
	return *s.GetBalance(addr), false
}

func (s *StateDB) Exist(addr common.Address) bool {
	return s.touched(addr) || s.account(addr) != nil
}

func (s *StateDB) Empty(addr common.Address) bool {
	return s.GetNonce(addr) == 0 && s.GetBalance(addr).IsZero() && s.GetCodeSize(addr) == 0
}

func (s *StateDB) AddressInAccessList(addr common.Address) bool {
	found := false
	s.arena.each(func(f *frame) bool {
		_, found = f.accessAddrs[addr]
		return found
	})
	return found
}

func (s *StateDB) SlotInAccessList(addr common.Address, slot common.Hash) (addressOk bool, slotOk bool) {
	s.arena.each(func(f *frame) bool {
		_, slotOk = f.accessSlots[addr][slot]
		return slotOk
	})
	return s.AddressInAccessList(addr), slotOk
}

func (s *StateDB) AddAddressToAccessList(addr common.Address) {
	s.arena.top().addAddress(addr)
}

func (s *StateDB) AddSlotToAccessList(addr common.Address, slot common.Hash) {
	f := s.arena.top()
	f.addAddress(addr)
	f.addSlot(addr, slot)
}

// Prepare resets the access list and transient storage and seeds the access
// list for the transaction about to run.
func (s *StateDB) Prepare(rules params.Rules, sender, coinbase common.Address, dest *common.Address, precompiles []common.Address, txAccesses ethtypes.AccessList) {
	for _, id := range s.arena.open {
		f := s.arena.frames[id]
		f.accessAddrs, f.accessSlots, f.transient = nil, nil, nil
	}
	if !rules.IsBerlin {
		return
	}
	s.AddAddressToAccessList(sender)
	if dest != nil {
		s.AddAddressToAccessList(*dest)
	}
	for _, addr := range precompiles {
		s.AddAddressToAccessList(addr)
	}
	for _, addr := range s.warm {
		s.AddAddressToAccessList(addr)
	}
	for _, el := range txAccesses {
		s.AddAddressToAccessList(el.Address)
		for _, key := range el.StorageKeys {
			s.AddSlotToAccessList(el.Address, key)
		}
	}
	if rules.IsShanghai {
		s.AddAddressToAccessList(coinbase)
	}
}

func (s *StateDB) AddLog(l *ethtypes.Log) {
	f := s.arena.top()
	count := 0
	s.arena.each(func(fr *frame) bool {
		count += len(fr.logs)
		return false
	})
	l.Index = uint(count)
	f.logs = append(f.logs, l)
}

// Logs returns the logs that survived execution.
func (s *StateDB) Logs() []*ethtypes.Log {
	return s.arena.frames[s.arena.open[0]].logs
}

func (s *StateDB) AddPreimage(common.Hash, []byte) {}

func (s *StateDB) PointCache() *utils.PointCache { return nil }

func (s *StateDB) Witness() *stateless.Witness { return nil }

func (s *StateDB) Finalise(bool) {}
