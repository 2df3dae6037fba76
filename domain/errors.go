package domain

import "errors"

// Error taxonomy of the engine. Every instruction either fully succeeds or
// fails with exactly one of these kinds; callers match with errors.Is through
// any wrapping.
var (
	// ErrNotFound means a referenced account is absent from the ledger.
	ErrNotFound = errors.New("account not found")

	// ErrAlreadyExists means a creation targeted an address that is already initialized.
	ErrAlreadyExists = errors.New("account already exists")

	// ErrUnauthorized means the signer does not match the account's authority or owner.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidAmount covers zero amounts, out-of-range basis points and
	// listing/offer price disagreement.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds means a debit exceeds the available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrCurrencyMismatch means a listing and an offer disagree on the auction
	// house (and therefore the payment currency) they settle under.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrExpired means a listing or offer expiry has passed.
	ErrExpired = errors.New("expired")

	// ErrMissingReceivingAccount means a creator or seller receiving account
	// required for the payment currency was not supplied or does not match.
	ErrMissingReceivingAccount = errors.New("missing receiving account")

	// ErrArithmeticUnderflow means the fee-plus-royalty configuration would
	// exceed the sale price.
	ErrArithmeticUnderflow = errors.New("arithmetic underflow")

	// ErrInvalidDiscountProof means a discount proof was supplied but the token
	// is not a verified member of the house's discount collection, or the buyer
	// does not hold it.
	ErrInvalidDiscountProof = errors.New("invalid discount proof")
)
