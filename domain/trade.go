package domain

import (
	"github.com/gagliardetto/solana-go"
)

// NoExpiry marks a listing or offer that never expires.
const NoExpiry uint64 = 0

// Listing is an active ask for a unique asset. It lives at the PDA derived
// from the asset mint alone, so re-listing overwrites in place instead of
// creating a duplicate. AuctionHouse pins the venue (and currency) selected
// at creation time.
type Listing struct {
	Seller       solana.PublicKey
	AssetMint    solana.PublicKey
	AuctionHouse solana.PublicKey
	Price        uint64
	Expiry       uint64
}

// Offer is an active bid by a specific buyer for a specific asset, at the PDA
// derived from (asset mint, buyer). Offers are speculative: escrow funding is
// only checked at settlement time.
type Offer struct {
	Buyer        solana.PublicKey
	AssetMint    solana.PublicKey
	AuctionHouse solana.PublicKey
	Price        uint64
	Expiry       uint64
}

// ExpiredAt reports whether an expiry timestamp has passed at the given unix
// time. NoExpiry never expires.
func ExpiredAt(expiry uint64, now int64) bool {
	return expiry != NoExpiry && now > 0 && uint64(now) > expiry
}
