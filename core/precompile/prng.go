package precompile

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"
)

const prngGas = 100

const prngABI = `[
	{"type":"function","name":"getPseudorandomSeed","stateMutability":"view",
	 "inputs":[],"outputs":[{"name":"","type":"bytes32"}]}
]`

func newPrng(env *Env) *contract {
	c := newContract("PRNG", prngABI, prngGas, env)
	c.handlers["getPseudorandomSeed"] = func([]any) ([]any, error) {
		return []any{seed(env)}, nil
	}
	return c
}

// seed derives a deterministic value from the record the range belongs to.
// The current state has no record and yields the zero seed.
func seed(env *Env) [32]byte {
	rng := env.View.Range()
	if rng == nil {
		return [32]byte{}
	}
	var end [8]byte
	binary.BigEndian.PutUint64(end[:], uint64(rng.End))
	return [32]byte(crypto.Keccak256Hash(rng.Hash.Bytes(), end[:]))
}
