package model

// CartLine is one requested item in a shopping list.
type CartLine struct {
	// ItemName is the free-text name to resolve against store records.
	ItemName string `json:"item_name"`
	// Quantity must be at least 1.
	Quantity int `json:"quantity"`
	// ItemCode, when supplied, takes precedence over name matching.
	ItemCode string `json:"item_code,omitempty"`
}

// MatchedLine is a cart line resolved to a concrete price record.
type MatchedLine struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
	// Price is the per-unit price of the resolved record.
	Price float64 `json:"price"`
	// LineTotal is Price times Quantity.
	LineTotal float64 `json:"line_total"`
	// Resolved is the record the line matched at the branch.
	Resolved PriceRecord `json:"resolved"`
	// UnitPrice is attached when the record name carried a quantity.
	UnitPrice *UnitPrice `json:"unit_price,omitempty"`
}

// BranchCartTotal is the fully resolved cart at one branch.
// Only branches that resolved every line produce one.
type BranchCartTotal struct {
	Chain      string        `json:"chain"`
	BranchID   string        `json:"branch_id"`
	TotalPrice float64       `json:"total_price"`
	Lines      []MatchedLine `json:"items"`
}

// CartResult is the outcome of a cheapest-cart computation.
type CartResult struct {
	Chain      string        `json:"chain"`
	BranchID   string        `json:"branch_id"`
	TotalPrice float64       `json:"total_price"`
	City       string        `json:"city"`
	Lines      []MatchedLine `json:"items"`
	// WorstPrice is the most expensive complete branch, for savings display.
	WorstPrice     float64 `json:"worst_price"`
	Savings        float64 `json:"savings"`
	SavingsPercent float64 `json:"savings_percent"`
	// AllBranches lists the cheapest complete branches, best first.
	AllBranches []BranchCartTotal `json:"all_stores"`
	// BranchesCompared is how many branches were examined in the city.
	BranchesCompared int `json:"branches_compared"`
}
