package marketplace

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/shopspring/decimal"

	"github.com/tarunjais28/solana-smart-contracts/domain"
)

// Breakdown is the exact integer split of one sale. For every valid
// settlement MarketplaceFee + sum(CreatorPayments) + SellerPayment == Price:
// royalty rounding dust is never redistributed, it stays in SellerPayment.
type Breakdown struct {
	Price           uint64
	MarketplaceFee  uint64
	RoyaltyPool     uint64
	CreatorPayments []uint64
	SellerPayment   uint64
	Discounted      bool
}

// proRata computes amount * numerator / denominator with a 128-bit
// intermediate product and floor division, as the on-chain u128 math does.
func proRata(amount, numerator, denominator uint64) (uint64, error) {
	hi, lo := bits.Mul64(amount, numerator)
	if hi >= denominator {
		// Quotient would not fit in 64 bits.
		return 0, domain.ErrArithmeticUnderflow
	}
	q, _ := bits.Div64(hi, lo, denominator)
	return q, nil
}

// ComputeBreakdown runs the settlement arithmetic for a sale at price, under
// the house fee schedule and the asset's royalty configuration. Pure: no
// account state is consulted.
func ComputeBreakdown(
	price uint64,
	house *domain.AuctionHouse,
	sellerFeeBasisPoints uint16,
	creators []domain.Creator,
	discounted bool,
) (Breakdown, error) {
	feeBps := house.FeeBasisPoints
	if discounted {
		feeBps = house.DiscountBasisPoints
	}

	marketplaceFee, err := proRata(price, uint64(feeBps), domain.MaxBasisPoints)
	if err != nil {
		return Breakdown{}, fmt.Errorf("marketplace fee: %w", err)
	}
	royaltyPool, err := proRata(price, uint64(sellerFeeBasisPoints), domain.MaxBasisPoints)
	if err != nil {
		return Breakdown{}, fmt.Errorf("royalty pool: %w", err)
	}

	payments := make([]uint64, len(creators))
	var royaltiesPaid uint64
	for i, creator := range creators {
		if creator.Share > 100 {
			return Breakdown{}, fmt.Errorf("creator %s share %d%%: %w", creator.Address, creator.Share, domain.ErrArithmeticUnderflow)
		}
		payment, err := proRata(royaltyPool, uint64(creator.Share), 100)
		if err != nil {
			return Breakdown{}, fmt.Errorf("creator payment: %w", err)
		}
		payments[i] = payment
		royaltiesPaid += payment
	}
	if royaltiesPaid > royaltyPool {
		return Breakdown{}, fmt.Errorf("royalties %d exceed pool %d: %w", royaltiesPaid, royaltyPool, domain.ErrArithmeticUnderflow)
	}

	// Seller keeps the remainder, including royalty rounding dust.
	if marketplaceFee > price || royaltiesPaid > price-marketplaceFee {
		return Breakdown{}, fmt.Errorf("fee %d plus royalties %d exceed price %d: %w",
			marketplaceFee, royaltiesPaid, price, domain.ErrArithmeticUnderflow)
	}

	return Breakdown{
		Price:           price,
		MarketplaceFee:  marketplaceFee,
		RoyaltyPool:     royaltyPool,
		CreatorPayments: payments,
		SellerPayment:   price - marketplaceFee - royaltiesPaid,
		Discounted:      discounted,
	}, nil
}

// UIAmount converts an integer amount in the currency's smallest unit into a
// display value with the given number of decimals. Display only — settlement
// math never leaves integers.
func UIAmount(amount uint64, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -decimals)
}
