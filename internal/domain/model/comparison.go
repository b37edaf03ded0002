package model

// Deal points at one chain's best price for an item.
type Deal struct {
	Chain    string  `json:"chain"`
	Price    float64 `json:"price"`
	BranchID string  `json:"branch_id"`
}

// CrossChainComparison is the best/worst summary for one item identity
// priced by at least two distinct chains.
type CrossChainComparison struct {
	BestDeal  Deal    `json:"best_deal"`
	WorstDeal Deal    `json:"worst_deal"`
	// Savings is worst price minus best price, never negative.
	Savings float64 `json:"savings"`
	// SavingsPercent is savings relative to the worst price, in [0,100].
	SavingsPercent float64 `json:"savings_percent"`
	// IdenticalProduct marks that the compared records share an item code.
	IdenticalProduct bool `json:"identical_product"`
}

// PairwiseComparison compares one unordered pair of chains for an item.
type PairwiseComparison struct {
	Chain1 string  `json:"chain1"`
	Chain2 string  `json:"chain2"`
	Price1 float64 `json:"price1"`
	Price2 float64 `json:"price2"`
	// Difference is the absolute price gap between the two chains.
	Difference float64 `json:"difference"`
	// PercentDifference is the gap relative to the cheaper price.
	PercentDifference float64 `json:"percent_difference"`
	CheaperChain      string  `json:"cheaper_chain"`
	Savings           float64 `json:"savings"`
}
