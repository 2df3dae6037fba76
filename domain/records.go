package domain

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// Account records are persisted as fixed-schema borsh blobs at their derived
// addresses. Escrow wallets and treasuries carry no record payload at all:
// their balance is the host balance at the derived address.

func encodeRecord(v interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeAuctionHouse serializes an auction house record.
func EncodeAuctionHouse(ah AuctionHouse) ([]byte, error) {
	return encodeRecord(ah)
}

// DecodeAuctionHouse deserializes an auction house record.
func DecodeAuctionHouse(data []byte) (AuctionHouse, error) {
	var ah AuctionHouse
	if err := bin.NewBorshDecoder(data).Decode(&ah); err != nil {
		return AuctionHouse{}, fmt.Errorf("failed to decode auction house record: %w", err)
	}
	return ah, nil
}

// EncodeListing serializes a listing record.
func EncodeListing(l Listing) ([]byte, error) {
	return encodeRecord(l)
}

// DecodeListing deserializes a listing record.
func DecodeListing(data []byte) (Listing, error) {
	var l Listing
	if err := bin.NewBorshDecoder(data).Decode(&l); err != nil {
		return Listing{}, fmt.Errorf("failed to decode listing record: %w", err)
	}
	return l, nil
}

// EncodeOffer serializes an offer record.
func EncodeOffer(o Offer) ([]byte, error) {
	return encodeRecord(o)
}

// DecodeOffer deserializes an offer record.
func DecodeOffer(data []byte) (Offer, error) {
	var o Offer
	if err := bin.NewBorshDecoder(data).Decode(&o); err != nil {
		return Offer{}, fmt.Errorf("failed to decode offer record: %w", err)
	}
	return o, nil
}
