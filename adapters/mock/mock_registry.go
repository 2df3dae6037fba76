package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/tarunjais28/solana-smart-contracts/domain"
)

// Registry implements marketplace.AssetRegistry for testing and demos: an
// in-memory map of asset sale metadata.
type Registry struct {
	mu     sync.RWMutex
	assets map[solana.PublicKey]domain.AssetRecord
}

// NewRegistry creates an empty asset registry.
func NewRegistry() *Registry {
	return &Registry{
		assets: make(map[solana.PublicKey]domain.AssetRecord),
	}
}

// RegisterAsset records an asset's creators, royalty rate and collection, as
// if its metadata had been issued on-chain.
func (r *Registry) RegisterAsset(record domain.AssetRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets[record.Mint] = record
	slog.Info("📜 [MockRegistry] Registered asset",
		"mint", record.Mint,
		"creators", len(record.Creators),
		"royalty_bps", record.SellerFeeBasisPoints,
	)
}

func (r *Registry) lookup(assetMint solana.PublicKey) (domain.AssetRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.assets[assetMint]
	if !ok {
		return domain.AssetRecord{}, domain.ErrNotFound
	}
	return record, nil
}

// Creators implements marketplace.AssetRegistry.
func (r *Registry) Creators(ctx context.Context, assetMint solana.PublicKey) ([]domain.Creator, error) {
	record, err := r.lookup(assetMint)
	if err != nil {
		return nil, err
	}
	creators := make([]domain.Creator, len(record.Creators))
	copy(creators, record.Creators)
	return creators, nil
}

// SellerFeeBasisPoints implements marketplace.AssetRegistry.
func (r *Registry) SellerFeeBasisPoints(ctx context.Context, assetMint solana.PublicKey) (uint16, error) {
	record, err := r.lookup(assetMint)
	if err != nil {
		return 0, err
	}
	return record.SellerFeeBasisPoints, nil
}

// Collection implements marketplace.AssetRegistry.
func (r *Registry) Collection(ctx context.Context, assetMint solana.PublicKey) (*domain.Collection, error) {
	record, err := r.lookup(assetMint)
	if err != nil {
		return nil, err
	}
	if record.Collection == nil {
		return nil, nil
	}
	collection := *record.Collection
	return &collection, nil
}
