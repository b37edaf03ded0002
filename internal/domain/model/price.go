// Package model defines the core domain entities for the price service.
package model

import "time"

// PriceRecord is a single price observation for an item at a branch.
// Records are owned by the price store; the service only holds transient
// copies for the duration of a request.
type PriceRecord struct {
	// Chain is the supermarket chain identifier (e.g. "shufersal").
	Chain string `bson:"chain" json:"chain"`
	// BranchID identifies the physical store within the chain.
	BranchID string `bson:"branch_id" json:"branch_id"`
	// City is denormalized from the branch so city-scoped queries
	// stay on a single collection.
	City string `bson:"city" json:"city,omitempty"`
	// ItemCode is the barcode-like identifier shared across chains.
	// May be empty when the feed did not carry one.
	ItemCode string `bson:"item_code,omitempty" json:"item_code,omitempty"`
	// ItemName is the free-text product name as published by the chain.
	ItemName string `bson:"item_name" json:"item_name"`
	// Price in shekels.
	Price float64 `bson:"price" json:"price"`
	// Timestamp is when the record was imported from the chain feed.
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Branch is a physical store location belonging to a chain.
type Branch struct {
	Chain    string `bson:"chain" json:"chain"`
	BranchID string `bson:"branch_id" json:"branch_id"`
	City     string `bson:"city" json:"city"`
	Name     string `bson:"name,omitempty" json:"name,omitempty"`
	Address  string `bson:"address,omitempty" json:"address,omitempty"`
}

// Key returns a stable identifier for the branch across chains.
func (b Branch) Key() string {
	return b.Chain + ":" + b.BranchID
}

// ChainBestPrice is the lowest price seen for one item identity within
// a single chain, retaining the branch it was observed at.
type ChainBestPrice struct {
	Chain    string  `json:"chain"`
	Price    float64 `json:"price"`
	BranchID string  `json:"branch_id"`
}

// Product groups the price records that share one item identity.
type Product struct {
	ItemCode string        `json:"item_code,omitempty"`
	ItemName string        `json:"item_name"`
	Prices   []PriceRecord `json:"prices"`
	// CrossChain is true when at least two distinct chains carry the item.
	CrossChain bool `json:"cross_chain"`
	// Comparison is present only for cross-chain products.
	Comparison *CrossChainComparison `json:"price_comparison,omitempty"`
	// PairwiseComparisons holds every unordered chain pair comparison.
	PairwiseComparisons []PairwiseComparison `json:"price_comparisons,omitempty"`
	// BestDeal is the chain with the global minimum price for the item.
	BestDeal *Deal `json:"best_deal,omitempty"`
	// UnitPrice is attached when a quantity could be parsed from the name.
	UnitPrice *UnitPrice `json:"unit_price,omitempty"`
}

// CityStores describes how many branches serve a city.
type CityStores struct {
	City     string `bson:"_id" json:"city"`
	Branches int    `bson:"branches" json:"branches"`
	Chains   int    `bson:"chains" json:"chains"`
}
