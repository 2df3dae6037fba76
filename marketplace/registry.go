package marketplace

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/tarunjais28/solana-smart-contracts/domain"
)

// AssetRegistry is the read-only port for asset sale metadata: royalty
// creators, the royalty rate, and collection membership. The engine assumes
// (but does not enforce) the registry's invariant that creator shares sum
// to 100.
type AssetRegistry interface {
	// Creators returns the royalty recipients of an asset, in payout order.
	Creators(ctx context.Context, assetMint solana.PublicKey) ([]domain.Creator, error)

	// SellerFeeBasisPoints returns the royalty rate configured on the asset.
	SellerFeeBasisPoints(ctx context.Context, assetMint solana.PublicKey) (uint16, error)

	// Collection returns the asset's collection membership, or nil if the
	// asset belongs to none.
	Collection(ctx context.Context, assetMint solana.PublicKey) (*domain.Collection, error)
}
