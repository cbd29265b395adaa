package domain

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Seed prefixes for derived record addresses. Every record the control plane
// owns is located by hashing a fixed prefix plus the identities that scope
// it, so no separate index is needed and two records can never collide.
const (
	SeedStablecoin     = "stablecoin"
	SeedRole           = "role"
	SeedMinter         = "minter"
	SeedBlacklist      = "blacklist"
	SeedMultisig       = "multisig"
	SeedProposal       = "proposal"
	SeedTimelockConfig = "timelock_config"
	SeedTimelock       = "timelock"
	SeedTransferLimit  = "transfer_limit"
)

// Derive computes the deterministic address for a record from its seed
// components. Components are length-prefixed before hashing so that
// ("ab","c") and ("a","bc") derive different addresses. The returned bump is
// the last digest byte, kept for parity with the platform's derivation
// interface.
func Derive(parts ...string) (Address, uint8) {
	h, _ := blake2b.New256(nil)
	var lenBuf [4]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(p)))
		h.Write(lenBuf[:])
		h.Write([]byte(p))
	}
	sum := h.Sum(nil)
	return Address(hex.EncodeToString(sum[:16])), sum[len(sum)-1]
}

// DeriveU64 is Derive with a trailing integer component, used for sequenced
// records such as proposals and timelock operations.
func DeriveU64(prefix string, scope Address, n uint64) (Address, uint8) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	return Derive(prefix, string(scope), string(buf[:]))
}
