package domain

import (
	"github.com/gagliardetto/solana-go"
)

// MaxBasisPoints is the denominator of all fee fractions (1bp = 1/10000).
const MaxBasisPoints = 10000

// AuctionHouse is the configuration record scoping one marketplace venue to
// one payment currency and one operator authority. It lives at the PDA derived
// from (Creator, TreasuryMint); Creator anchors the address and never changes,
// Authority is rotatable via update.
type AuctionHouse struct {
	Treasury                      solana.PublicKey
	TreasuryWithdrawalDestination solana.PublicKey
	TreasuryMint                  solana.PublicKey
	Authority                     solana.PublicKey
	Creator                       solana.PublicKey
	FeeBasisPoints                uint16
	DiscountCollection            solana.PublicKey
	DiscountBasisPoints           uint16
}

// IsNative reports whether the house settles in the native currency rather
// than a fungible-token ledger.
func (ah *AuctionHouse) IsNative() bool {
	return ah.TreasuryMint.Equals(NativeMint)
}
