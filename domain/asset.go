package domain

import (
	"github.com/gagliardetto/solana-go"
)

// Creator is one royalty recipient of an asset, with its share of the royalty
// pool in whole percent. The registry owns the invariant that shares sum to 100.
type Creator struct {
	Address  solana.PublicKey
	Share    uint8
	Verified bool
}

// Collection identifies the collection an asset belongs to, if any. Only
// verified memberships count for discount proofs.
type Collection struct {
	Key      solana.PublicKey
	Verified bool
}

// AssetRecord is the read-only view of an asset's sale metadata as served by
// the Asset Registry. This is strictly metadata — custody lives in the ledger.
type AssetRecord struct {
	Mint                 solana.PublicKey
	Creators             []Creator
	SellerFeeBasisPoints uint16
	Collection           *Collection
}
