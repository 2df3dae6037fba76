// Package metaplex implements marketplace.AssetRegistry against the Metaplex
// token-metadata program over Solana RPC.
package metaplex

import (
	"context"

	"github.com/caarlos0/env/v11"
	bin "github.com/gagliardetto/binary"
	token_metadata "github.com/gagliardetto/metaplex-go/clients/token-metadata"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"

	"github.com/tarunjais28/solana-smart-contracts/domain"
)

// Config holds connection configuration.
type Config struct {
	Endpoint string `env:"SOLANA_RPC_ENDPOINT"`
}

// ConfigFromEnv populates a Config from the environment, defaulting to the
// public mainnet-beta endpoint.
func ConfigFromEnv() (Config, error) {
	cfg := Config{Endpoint: rpc.MainNetBeta_RPC}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse registry config")
	}
	return cfg, nil
}

// Registry reads asset sale metadata from the chain. Read-only: the engine
// never writes through this interface.
type Registry struct {
	client *rpc.Client
}

// NewRegistry creates a registry over a fresh RPC client.
func NewRegistry(cfg Config) *Registry {
	return &Registry{client: rpc.New(cfg.Endpoint)}
}

// NewRegistryWithClient creates a registry over an existing RPC client.
func NewRegistryWithClient(client *rpc.Client) *Registry {
	return &Registry{client: client}
}

// metadataAddress derives the token-metadata PDA decorating a mint.
func metadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{
			[]byte("metadata"),
			token_metadata.ProgramID.Bytes(),
			mint.Bytes(),
		},
		token_metadata.ProgramID,
	)
	return addr, err
}

func (r *Registry) fetchMetadata(ctx context.Context, assetMint solana.PublicKey) (token_metadata.Metadata, error) {
	address, err := metadataAddress(assetMint)
	if err != nil {
		return token_metadata.Metadata{}, errors.Wrap(err, "failed to derive metadata address")
	}
	raw, err := r.client.GetAccountInfo(ctx, address)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return token_metadata.Metadata{}, errors.Wrapf(domain.ErrNotFound, "metadata for mint %s", assetMint)
		}
		return token_metadata.Metadata{}, errors.Wrapf(err, "failed to fetch metadata for mint %s", assetMint)
	}
	var meta token_metadata.Metadata
	if err := bin.NewBorshDecoder(raw.Value.Data.GetBinary()).Decode(&meta); err != nil {
		return token_metadata.Metadata{}, errors.Wrapf(err, "failed to decode metadata for mint %s", assetMint)
	}
	return meta, nil
}

// Creators implements marketplace.AssetRegistry.
func (r *Registry) Creators(ctx context.Context, assetMint solana.PublicKey) ([]domain.Creator, error) {
	meta, err := r.fetchMetadata(ctx, assetMint)
	if err != nil {
		return nil, err
	}
	if meta.Data.Creators == nil {
		return nil, nil
	}
	creators := make([]domain.Creator, 0, len(*meta.Data.Creators))
	for _, c := range *meta.Data.Creators {
		creators = append(creators, domain.Creator{
			Address:  c.Address,
			Share:    c.Share,
			Verified: c.Verified,
		})
	}
	return creators, nil
}

// SellerFeeBasisPoints implements marketplace.AssetRegistry.
func (r *Registry) SellerFeeBasisPoints(ctx context.Context, assetMint solana.PublicKey) (uint16, error) {
	meta, err := r.fetchMetadata(ctx, assetMint)
	if err != nil {
		return 0, err
	}
	return meta.Data.SellerFeeBasisPoints, nil
}

// Collection implements marketplace.AssetRegistry.
func (r *Registry) Collection(ctx context.Context, assetMint solana.PublicKey) (*domain.Collection, error) {
	meta, err := r.fetchMetadata(ctx, assetMint)
	if err != nil {
		return nil, err
	}
	if meta.Collection == nil {
		return nil, nil
	}
	return &domain.Collection{
		Key:      meta.Collection.Key,
		Verified: meta.Collection.Verified,
	}, nil
}
