package marketplace_test

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/tarunjais28/solana-smart-contracts/adapters/mock"
	"github.com/tarunjais28/solana-smart-contracts/domain"
	"github.com/tarunjais28/solana-smart-contracts/marketplace"
)

const oneSol = uint64(solana.LAMPORTS_PER_SOL)

var ctx = context.Background()

// fixture wires an engine to mock adapters with one native-currency auction
// house (5% fee, 3% discount fee) and funded participants.
type fixture struct {
	t        *testing.T
	ledger   *mock.Ledger
	registry *mock.Registry
	engine   *marketplace.Engine

	authority          solana.PublicKey
	seller             solana.PublicKey
	buyer              solana.PublicKey
	discountCollection solana.PublicKey
	house              solana.PublicKey
	treasury           solana.PublicKey
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:                  t,
		ledger:             mock.NewLedger(),
		registry:           mock.NewRegistry(),
		authority:          solana.NewWallet().PublicKey(),
		seller:             solana.NewWallet().PublicKey(),
		buyer:              solana.NewWallet().PublicKey(),
		discountCollection: solana.NewWallet().PublicKey(),
	}
	f.engine = marketplace.New(f.ledger, f.registry)

	f.ledger.FundNative(f.authority, 10*oneSol)
	f.ledger.FundNative(f.seller, 10*oneSol)
	f.ledger.FundNative(f.buyer, 10*oneSol)

	house, err := f.engine.CreateAuctionHouse(ctx, marketplace.CreateAuctionHouseParams{
		Authority:                     f.authority,
		TreasuryMint:                  domain.NativeMint,
		FeeBasisPoints:                500,
		DiscountCollection:            f.discountCollection,
		DiscountBasisPoints:           300,
		TreasuryWithdrawalDestination: f.authority,
	})
	require.NoError(t, err)
	f.house = house

	treasury, _, err := domain.FindTreasuryAddress(f.engine.ProgramID(), house)
	require.NoError(t, err)
	f.treasury = treasury
	return f
}

// newAsset mints a unique asset to the seller with the given royalty setup.
func (f *fixture) newAsset(sellerFeeBps uint16, creators []domain.Creator) solana.PublicKey {
	f.t.Helper()
	mint := solana.NewWallet().PublicKey()
	f.ledger.SimulateAsset(mint, f.seller)
	f.registry.RegisterAsset(domain.AssetRecord{
		Mint:                 mint,
		Creators:             creators,
		SellerFeeBasisPoints: sellerFeeBps,
	})
	return mint
}

func receiversFor(creators []domain.Creator) []marketplace.Receiver {
	receivers := make([]marketplace.Receiver, len(creators))
	for i, c := range creators {
		receivers[i] = marketplace.Receiver{Address: c.Address}
	}
	return receivers
}

func TestCreateAuctionHouse(t *testing.T) {
	f := newFixture(t)

	t.Run("duplicate pair is rejected", func(t *testing.T) {
		_, err := f.engine.CreateAuctionHouse(ctx, marketplace.CreateAuctionHouseParams{
			Authority:                     f.authority,
			TreasuryMint:                  domain.NativeMint,
			FeeBasisPoints:                100,
			TreasuryWithdrawalDestination: f.authority,
		})
		require.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("same authority different currency is a new house", func(t *testing.T) {
		tokenMint := solana.NewWallet().PublicKey()
		destination := solana.NewWallet().PublicKey()
		f.ledger.CreateTokenAccount(destination, tokenMint, f.authority, 0)

		house, err := f.engine.CreateAuctionHouse(ctx, marketplace.CreateAuctionHouseParams{
			Authority:                     f.authority,
			TreasuryMint:                  tokenMint,
			FeeBasisPoints:                100,
			TreasuryWithdrawalDestination: destination,
		})
		require.NoError(t, err)
		require.NotEqual(t, f.house, house)
	})

	t.Run("fee above 10000 basis points is rejected", func(t *testing.T) {
		_, err := f.engine.CreateAuctionHouse(ctx, marketplace.CreateAuctionHouseParams{
			Authority:                     solana.NewWallet().PublicKey(),
			TreasuryMint:                  domain.NativeMint,
			FeeBasisPoints:                10_001,
			TreasuryWithdrawalDestination: f.authority,
		})
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("discount above fee is rejected", func(t *testing.T) {
		_, err := f.engine.CreateAuctionHouse(ctx, marketplace.CreateAuctionHouseParams{
			Authority:                     solana.NewWallet().PublicKey(),
			TreasuryMint:                  domain.NativeMint,
			FeeBasisPoints:                200,
			DiscountBasisPoints:           300,
			TreasuryWithdrawalDestination: f.authority,
		})
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("token currency destination must be a token account", func(t *testing.T) {
		tokenMint := solana.NewWallet().PublicKey()
		_, err := f.engine.CreateAuctionHouse(ctx, marketplace.CreateAuctionHouseParams{
			Authority:                     solana.NewWallet().PublicKey(),
			TreasuryMint:                  tokenMint,
			FeeBasisPoints:                100,
			TreasuryWithdrawalDestination: solana.NewWallet().PublicKey(),
		})
		require.ErrorIs(t, err, domain.ErrMissingReceivingAccount)
	})
}

func TestUpdateAuctionHouse(t *testing.T) {
	f := newFixture(t)

	t.Run("only the authority may update", func(t *testing.T) {
		stranger := solana.NewWallet().PublicKey()
		fee := uint16(100)
		err := f.engine.UpdateAuctionHouse(ctx, marketplace.UpdateAuctionHouseParams{
			AuctionHouse:   f.house,
			Authority:      stranger,
			FeeBasisPoints: &fee,
		})
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("nil fields stay unchanged", func(t *testing.T) {
		fee := uint16(250)
		err := f.engine.UpdateAuctionHouse(ctx, marketplace.UpdateAuctionHouseParams{
			AuctionHouse:   f.house,
			Authority:      f.authority,
			FeeBasisPoints: &fee,
		})
		require.NoError(t, err)

		// Discount configuration survives a fee-only update; a discounted sale
		// still uses the untouched discount rate.
		b, err := marketplace.ComputeBreakdown(1_000_000, &domain.AuctionHouse{FeeBasisPoints: fee, DiscountBasisPoints: 300}, 0, nil, false)
		require.NoError(t, err)
		require.Equal(t, uint64(25_000), b.MarketplaceFee)
	})

	t.Run("authority rotation hands over control", func(t *testing.T) {
		next := solana.NewWallet().PublicKey()
		err := f.engine.UpdateAuctionHouse(ctx, marketplace.UpdateAuctionHouseParams{
			AuctionHouse: f.house,
			Authority:    f.authority,
			NewAuthority: &next,
		})
		require.NoError(t, err)

		// Old authority is locked out, new one is in charge.
		fee := uint16(100)
		err = f.engine.UpdateAuctionHouse(ctx, marketplace.UpdateAuctionHouseParams{
			AuctionHouse:   f.house,
			Authority:      f.authority,
			FeeBasisPoints: &fee,
		})
		require.ErrorIs(t, err, domain.ErrUnauthorized)

		err = f.engine.UpdateAuctionHouse(ctx, marketplace.UpdateAuctionHouseParams{
			AuctionHouse:   f.house,
			Authority:      next,
			FeeBasisPoints: &fee,
		})
		require.NoError(t, err)
	})
}

func TestWithdrawFromTreasury(t *testing.T) {
	f := newFixture(t)

	t.Run("zero amount is rejected", func(t *testing.T) {
		err := f.engine.WithdrawFromTreasury(ctx, marketplace.WithdrawFromTreasuryParams{
			AuctionHouse: f.house,
			Authority:    f.authority,
			Amount:       0,
		})
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("overdraw is rejected", func(t *testing.T) {
		err := f.engine.WithdrawFromTreasury(ctx, marketplace.WithdrawFromTreasuryParams{
			AuctionHouse: f.house,
			Authority:    f.authority,
			Amount:       oneSol,
		})
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	})

	t.Run("collected fees reach the withdrawal destination", func(t *testing.T) {
		f.ledger.FundNative(f.treasury, 3_000_000)
		before := f.ledger.NativeBalance(f.authority)

		err := f.engine.WithdrawFromTreasury(ctx, marketplace.WithdrawFromTreasuryParams{
			AuctionHouse: f.house,
			Authority:    f.authority,
			Amount:       3_000_000,
		})
		require.NoError(t, err)
		require.Equal(t, before+3_000_000, f.ledger.NativeBalance(f.authority))
	})

	t.Run("stranger cannot withdraw", func(t *testing.T) {
		f.ledger.FundNative(f.treasury, 1)
		err := f.engine.WithdrawFromTreasury(ctx, marketplace.WithdrawFromTreasuryParams{
			AuctionHouse: f.house,
			Authority:    solana.NewWallet().PublicKey(),
			Amount:       1,
		})
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
