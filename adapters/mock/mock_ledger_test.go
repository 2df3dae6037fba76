package mock_test

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/tarunjais28/solana-smart-contracts/adapters/mock"
	"github.com/tarunjais28/solana-smart-contracts/domain"
	"github.com/tarunjais28/solana-smart-contracts/marketplace"
)

var ctx = context.Background()

func TestCommitAtomicity(t *testing.T) {
	ledger := mock.NewLedger()
	alice := solana.NewWallet().PublicKey()
	bob := solana.NewWallet().PublicKey()
	ledger.FundNative(alice, 1_000_000)

	// The first transfer would succeed on its own; the second overdraws.
	err := ledger.Commit(ctx, []marketplace.Op{
		marketplace.TransferOp{Mint: domain.NativeMint, From: alice, To: bob, Amount: 400_000},
		marketplace.TransferOp{Mint: domain.NativeMint, From: alice, To: bob, Amount: 700_000},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	require.Equal(t, uint64(1_000_000), ledger.NativeBalance(alice))
	require.Zero(t, ledger.NativeBalance(bob))

	// The same batch split in two: the first half commits.
	require.NoError(t, ledger.Commit(ctx, []marketplace.Op{
		marketplace.TransferOp{Mint: domain.NativeMint, From: alice, To: bob, Amount: 400_000},
	}))
	require.Equal(t, uint64(600_000), ledger.NativeBalance(alice))
	require.Equal(t, uint64(400_000), ledger.NativeBalance(bob))
}

func TestAccountLifecycle(t *testing.T) {
	ledger := mock.NewLedger()
	payer := solana.NewWallet().PublicKey()
	record := solana.NewWallet().PublicKey()
	ledger.FundNative(payer, 10_000_000)

	require.NoError(t, ledger.Commit(ctx, []marketplace.Op{
		marketplace.CreateAccountOp{Address: record, Data: []byte{1, 2, 3}, Payer: payer},
	}))
	rent := ledger.RentPaid(record)
	require.NotZero(t, rent)
	require.Equal(t, 10_000_000-rent, ledger.NativeBalance(payer))

	data, err := ledger.AccountData(ctx, record)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, data)

	// Creating over an existing account is rejected.
	err = ledger.Commit(ctx, []marketplace.Op{
		marketplace.CreateAccountOp{Address: record, Data: nil, Payer: payer},
	})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	// Closing refunds the rent reservation to the receiver.
	receiver := solana.NewWallet().PublicKey()
	require.NoError(t, ledger.Commit(ctx, []marketplace.Op{
		marketplace.CloseAccountOp{Address: record, RentReceiver: receiver},
	}))
	require.Equal(t, rent, ledger.NativeBalance(receiver))
	_, err = ledger.AccountData(ctx, record)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustodyMoves(t *testing.T) {
	ledger := mock.NewLedger()
	holder := solana.NewWallet().PublicKey()
	vault := solana.NewWallet().PublicKey()
	asset := solana.NewWallet().PublicKey()
	ledger.SimulateAsset(asset, holder)

	// Only the current custodian can hand an asset over.
	err := ledger.Commit(ctx, []marketplace.Op{
		marketplace.MoveCustodyOp{AssetMint: asset, From: vault, To: holder},
	})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, ledger.Commit(ctx, []marketplace.Op{
		marketplace.MoveCustodyOp{AssetMint: asset, From: holder, To: vault},
	}))
	custodian, err := ledger.AssetCustodian(ctx, asset)
	require.NoError(t, err)
	require.Equal(t, vault, custodian)
}
