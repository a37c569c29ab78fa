package types

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const (
	shardBits = 10
	realmBits = 16
	numBits   = 38

	shardMask = (int64(1) << shardBits) - 1
	realmMask = (int64(1) << realmBits) - 1
	numMask   = (int64(1) << numBits) - 1
)

// EntityID is a shard.realm.num identifier packed into a single signed 64 bit
// value, the way the mirror database stores it.
type EntityID int64

// NewEntityID packs the given components. Out of range components are masked.
func NewEntityID(shard, realm, num int64) EntityID {
	return EntityID((shard&shardMask)<<(realmBits+numBits) | (realm&realmMask)<<numBits | num&numMask)
}

func (id EntityID) Shard() int64 { return int64(id) >> (realmBits + numBits) & shardMask }
func (id EntityID) Realm() int64 { return int64(id) >> numBits & realmMask }
func (id EntityID) Num() int64   { return int64(id) & numMask }

// String renders the id as shard.realm.num.
func (id EntityID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Shard(), id.Realm(), id.Num())
}

// ToAddress returns the long-zero EVM address of the entity: 4 bytes shard,
// 8 bytes realm and 8 bytes num.
func (id EntityID) ToAddress() common.Address {
	var addr common.Address
	binary.BigEndian.PutUint32(addr[0:4], uint32(id.Shard()))
	binary.BigEndian.PutUint64(addr[4:12], uint64(id.Realm()))
	binary.BigEndian.PutUint64(addr[12:20], uint64(id.Num()))
	return addr
}

// EntityIDFromAddress decodes a long-zero address. Addresses whose shard and
// realm prefix is not zero are EVM aliases and report false.
func EntityIDFromAddress(addr common.Address) (EntityID, bool) {
	for _, b := range addr[:12] {
		if b != 0 {
			return 0, false
		}
	}
	num := binary.BigEndian.Uint64(addr[12:20])
	if num > uint64(numMask) {
		return 0, false
	}
	return NewEntityID(0, 0, int64(num)), true
}

// ParseEntityID parses "shard.realm.num" or a bare num.
func ParseEntityID(s string) (EntityID, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 1 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid entity id %q", s)
	}
	values := make([]int64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid entity id %q", s)
		}
		values[i] = v
	}
	if len(values) == 1 {
		return NewEntityID(0, 0, values[0]), nil
	}
	if values[0] > shardMask || values[1] > realmMask || values[2] > numMask {
		return 0, fmt.Errorf("entity id %q out of range", s)
	}
	return NewEntityID(values[0], values[1], values[2]), nil
}
