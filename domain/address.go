package domain

import (
	"github.com/gagliardetto/solana-go"
)

// DefaultProgramID is the deployed marketplace program this engine's account
// space is scoped to.
var DefaultProgramID = solana.MustPublicKeyFromBase58("GG2v349mCx2DUL2Pu3aFtKgjxdNjxYYZjUXVhLSbFt8Q")

// NativeMint is the sentinel treasury mint marking an auction house as
// native-currency (SOL) denominated.
var NativeMint = solana.SolMint

// PDA namespace seeds. Each record type derives its address from the
// "marketplace" prefix plus its identity tuple, so distinct tuples can never
// collide across namespaces.
var (
	seedPrefix   = []byte("marketplace")
	seedTreasury = []byte("treasury")
	seedListing  = []byte("listing")
	seedOffer    = []byte("offer")
)

// FindAuctionHouseAddress derives the auction house PDA for a
// (creator, treasuryMint) pair. One house per pair, per program.
func FindAuctionHouseAddress(programID, creator, treasuryMint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{seedPrefix, creator.Bytes(), treasuryMint.Bytes()},
		programID,
	)
}

// FindTreasuryAddress derives the fee treasury PDA owned by an auction house.
func FindTreasuryAddress(programID, auctionHouse solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{seedPrefix, auctionHouse.Bytes(), seedTreasury},
		programID,
	)
}

// FindEscrowAddress derives a participant's escrow wallet PDA under an
// auction house.
func FindEscrowAddress(programID, auctionHouse, wallet solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{seedPrefix, auctionHouse.Bytes(), wallet.Bytes()},
		programID,
	)
}

// FindListingAddress derives the listing PDA for an asset. The seed tuple is
// the mint alone: one active listing per asset, across all auction houses.
func FindListingAddress(programID, assetMint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{seedPrefix, assetMint.Bytes(), seedListing},
		programID,
	)
}

// FindOfferAddress derives the offer PDA for a (buyer, asset) pair.
func FindOfferAddress(programID, assetMint, buyer solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{seedPrefix, assetMint.Bytes(), buyer.Bytes(), seedOffer},
		programID,
	)
}
