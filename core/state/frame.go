package state

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

// ErrFrameStackCorrupted is raised, by panic, when the open frame stack no
// longer matches the interpreter's call depth.
var ErrFrameStackCorrupted = errors.New("overlay frame stack corrupted")

// frame is the delta written by one call. Maps are allocated on first write.
type frame struct {
	balances    map[common.Address]*uint256.Int
	nonces      map[common.Address]uint64
	codes       map[common.Address][]byte
	created     map[common.Address]bool // storage of these accounts starts empty in this frame
	contracts   map[common.Address]bool // created as contracts during this execution
	destructed  map[common.Address]bool
	storage     map[common.Address]map[common.Hash]common.Hash
	transient   map[common.Address]map[common.Hash]common.Hash
	accessAddrs map[common.Address]struct{}
	accessSlots map[common.Address]map[common.Hash]struct{}
	logs        []*ethtypes.Log
	refund      uint64 // refund counter when the frame was opened
}

func newFrame(refund uint64) *frame {
	return &frame{refund: refund}
}

func (f *frame) setBalance(addr common.Address, v *uint256.Int) {
	if f.balances == nil {
		f.balances = map[common.Address]*uint256.Int{}
	}
	f.balances[addr] = v
}

func (f *frame) setNonce(addr common.Address, n uint64) {
	if f.nonces == nil {
		f.nonces = map[common.Address]uint64{}
	}
	f.nonces[addr] = n
}

func (f *frame) setCode(addr common.Address, code []byte) {
	if f.codes == nil {
		f.codes = map[common.Address][]byte{}
	}
	f.codes[addr] = code
}

func (f *frame) markCreated(addr common.Address) {
	if f.created == nil {
		f.created = map[common.Address]bool{}
	}
	f.created[addr] = true
	delete(f.storage, addr)
}

func (f *frame) markContract(addr common.Address) {
	if f.contracts == nil {
		f.contracts = map[common.Address]bool{}
	}
	f.contracts[addr] = true
}

func (f *frame) markDestructed(addr common.Address) {
	if f.destructed == nil {
		f.destructed = map[common.Address]bool{}
	}
	f.destructed[addr] = true
}

func setSlot(m *map[common.Address]map[common.Hash]common.Hash, addr common.Address, key, value common.Hash) {
	if *m == nil {
		*m = map[common.Address]map[common.Hash]common.Hash{}
	}
	slots, ok := (*m)[addr]
	if !ok {
		slots = map[common.Hash]common.Hash{}
		(*m)[addr] = slots
	}
	slots[key] = value
}

func (f *frame) addAddress(addr common.Address) {
	if f.accessAddrs == nil {
		f.accessAddrs = map[common.Address]struct{}{}
	}
	f.accessAddrs[addr] = struct{}{}
}

func (f *frame) addSlot(addr common.Address, slot common.Hash) {
	if f.accessSlots == nil {
		f.accessSlots = map[common.Address]map[common.Hash]struct{}{}
	}
	slots, ok := f.accessSlots[addr]
	if !ok {
		slots = map[common.Hash]struct{}{}
		f.accessSlots[addr] = slots
	}
	slots[slot] = struct{}{}
}

// absorb folds child into f. Account creation in the child hides every
// storage write f made for that account.
func (f *frame) absorb(child *frame) {
	for addr := range child.created {
		f.markCreated(addr)
	}
	for addr, v := range child.balances {
		f.setBalance(addr, v)
	}
	for addr, n := range child.nonces {
		f.setNonce(addr, n)
	}
	for addr, code := range child.codes {
		f.setCode(addr, code)
	}
	for addr := range child.contracts {
		f.markContract(addr)
	}
	for addr := range child.destructed {
		f.markDestructed(addr)
	}
	for addr, slots := range child.storage {
		for k, v := range slots {
			setSlot(&f.storage, addr, k, v)
		}
	}
	for addr, slots := range child.transient {
		for k, v := range slots {
			setSlot(&f.transient, addr, k, v)
		}
	}
	for addr := range child.accessAddrs {
		f.addAddress(addr)
	}
	for addr, slots := range child.accessSlots {
		for slot := range slots {
			f.addSlot(addr, slot)
		}
	}
	f.logs = append(f.logs, child.logs...)
}

// arena owns every frame of one execution. Frames are addressed by index;
// open holds the indices of the frames currently stacked, root first.
type arena struct {
	frames []*frame
	open   []int
}

func newArena() *arena {
	a := &arena{}
	a.push(0)
	return a
}

func (a *arena) push(refund uint64) int {
	id := len(a.frames)
	a.frames = append(a.frames, newFrame(refund))
	a.open = append(a.open, id)
	return id
}

func (a *arena) top() *frame {
	return a.frames[a.open[len(a.open)-1]]
}

func (a *arena) depth() int {
	return len(a.open)
}

// each walks the open frames from the top of the stack down to the root and
// stops when fn returns true.
func (a *arena) each(fn func(*frame) bool) {
	for i := len(a.open) - 1; i >= 0; i-- {
		if fn(a.frames[a.open[i]]) {
			return
		}
	}
}

// merge folds the open child frame into its open parent and closes the child.
func (a *arena) merge(parent, child int) {
	n := len(a.open)
	if n < 2 || a.open[n-1] != child || a.open[n-2] != parent {
		panic(fmt.Errorf("%w: merge %d into %d with open frames %v", ErrFrameStackCorrupted, child, parent, a.open))
	}
	a.frames[parent].absorb(a.frames[child])
	a.frames[child] = nil
	a.open = a.open[:n-1]
}

// discard closes frame id and every frame opened after it, returning the
// frame that was discarded.
func (a *arena) discard(id int) *frame {
	pos := -1
	for i := len(a.open) - 1; i > 0; i-- {
		if a.open[i] == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		panic(fmt.Errorf("%w: revert to frame %d with open frames %v", ErrFrameStackCorrupted, id, a.open))
	}
	discarded := a.frames[id]
	for _, closed := range a.open[pos:] {
		a.frames[closed] = nil
	}
	a.open = a.open[:pos]
	return discarded
}
