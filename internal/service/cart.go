package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/basketly/price-service/internal/domain/model"
	"github.com/basketly/price-service/internal/metrics"
	"github.com/basketly/price-service/internal/repository"
	"github.com/basketly/price-service/internal/service/cache"
)

// CartOptimizer finds the branch where a shopping list costs the least.
type CartOptimizer interface {
	CheapestCart(ctx context.Context, city string, lines []model.CartLine) (*model.CartResult, error)
}

// CartOptimizerConfig carries the tunables for cart optimization.
type CartOptimizerConfig struct {
	// MaxWorkers caps the per-branch resolution worker pool.
	MaxWorkers int
	// BranchTimeout bounds price-store reads for a single branch.
	BranchTimeout time.Duration
	// TopBranches is how many complete branches are returned alongside
	// the cheapest one.
	TopBranches int
}

// CartOptimizerService implements CartOptimizer. Branch resolution
// fans out across a bounded worker pool; a branch that fails or times
// out is skipped while any branch completes. When no branch completes
// and the store failed along the way, the request reports the store
// unavailable rather than claiming no branch carries the list.
type CartOptimizerService struct {
	prices     repository.PriceRepositoryInterface
	branches   cache.Cache
	normalizer UnitNormalizer
	cfg        CartOptimizerConfig
}

// NewCartOptimizerService creates a new cart optimizer. branchCache
// may be nil.
func NewCartOptimizerService(
	prices repository.PriceRepositoryInterface,
	branchCache cache.Cache,
	normalizer UnitNormalizer,
	cfg CartOptimizerConfig,
) *CartOptimizerService {
	return &CartOptimizerService{
		prices:     prices,
		branches:   branchCache,
		normalizer: normalizer,
		cfg:        cfg,
	}
}

// branchOutcome is one branch's resolution result. Total is nil when
// the branch failed to resolve every line. storeErr records that the
// branch was cut short by a store failure rather than missing stock,
// so the caller can tell "no match" apart from "could not look".
type branchOutcome struct {
	branch   model.Branch
	total    *model.BranchCartTotal
	resolved int
	storeErr bool
}

// CheapestCart resolves every cart line at every branch in the city
// and returns the cheapest branch that carries the full list. Branches
// missing any line are excluded; a partial cart is never substituted
// for a complete one.
func (s *CartOptimizerService) CheapestCart(ctx context.Context, city string, lines []model.CartLine) (*model.CartResult, error) {
	start := time.Now()

	if err := validateCart(city, lines); err != nil {
		metrics.RecordCartComparison(time.Since(start), "invalid", 0)
		return nil, err
	}

	branches, err := s.cityBranches(ctx, city)
	if err != nil {
		metrics.RecordCartComparison(time.Since(start), "error", 0)
		return nil, err
	}
	if len(branches) == 0 {
		metrics.RecordCartComparison(time.Since(start), "city_not_found", 0)
		return nil, model.ErrCityNotFound
	}

	outcomes := s.resolveBranches(ctx, branches, lines)

	complete := make([]branchOutcome, 0, len(outcomes))
	resolvedPerBranch := make(map[string]int, len(outcomes))
	storeFailures := 0
	for _, outcome := range outcomes {
		resolvedPerBranch[outcome.branch.Key()] = outcome.resolved
		if outcome.storeErr {
			storeFailures++
		}
		if outcome.total != nil {
			complete = append(complete, outcome)
		}
	}

	if len(complete) == 0 {
		// A no-complete-match answer is definitive and callers must not
		// retry it. When the store failed mid-resolution we cannot make
		// that claim, so the transient error wins.
		if storeFailures > 0 {
			metrics.RecordCartComparison(time.Since(start), "error", len(branches))
			return nil, model.ErrStoreUnavailable
		}
		metrics.RecordCartComparison(time.Since(start), "no_match", len(branches))
		return nil, &model.NoCompleteMatchError{
			Required:          len(lines),
			ResolvedPerBranch: resolvedPerBranch,
		}
	}

	// Cheapest total wins; equal totals break on branch_id then chain
	// so repeated requests always name the same winner.
	sort.Slice(complete, func(i, j int) bool {
		a, b := complete[i].total, complete[j].total
		if a.TotalPrice != b.TotalPrice {
			return a.TotalPrice < b.TotalPrice
		}
		if a.BranchID != b.BranchID {
			return a.BranchID < b.BranchID
		}
		return a.Chain < b.Chain
	})

	best := complete[0].total
	worst := best.TotalPrice
	for _, outcome := range complete[1:] {
		if outcome.total.TotalPrice > worst {
			worst = outcome.total.TotalPrice
		}
	}

	savings := worst - best.TotalPrice
	savingsPercent := 0.0
	if worst > 0 {
		savingsPercent = savings / worst * 100
	}

	top := s.cfg.TopBranches
	if top <= 0 || top > len(complete) {
		top = len(complete)
	}
	allBranches := make([]model.BranchCartTotal, 0, top)
	for _, outcome := range complete[:top] {
		allBranches = append(allBranches, *outcome.total)
	}

	metrics.RecordCartComparison(time.Since(start), "success", len(branches))

	return &model.CartResult{
		Chain:            best.Chain,
		BranchID:         best.BranchID,
		TotalPrice:       best.TotalPrice,
		City:             city,
		Lines:            best.Lines,
		WorstPrice:       worst,
		Savings:          savings,
		SavingsPercent:   savingsPercent,
		AllBranches:      allBranches,
		BranchesCompared: len(branches),
	}, nil
}

// resolveBranches fans branch resolution out across a worker pool
// bounded by configuration and the branch count.
func (s *CartOptimizerService) resolveBranches(ctx context.Context, branches []model.Branch, lines []model.CartLine) []branchOutcome {
	workers := s.cfg.MaxWorkers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(branches) {
		workers = len(branches)
	}

	outcomes := make([]branchOutcome, len(branches))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = s.resolveBranch(ctx, branches[i], lines)
			}
		}()
	}

	for i := range branches {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

// resolveBranch resolves every cart line at one branch under the
// per-branch timeout. The cheapest matching record wins each line.
func (s *CartOptimizerService) resolveBranch(ctx context.Context, branch model.Branch, lines []model.CartLine) branchOutcome {
	branchCtx := ctx
	if s.cfg.BranchTimeout > 0 {
		var cancel context.CancelFunc
		branchCtx, cancel = context.WithTimeout(ctx, s.cfg.BranchTimeout)
		defer cancel()
	}

	outcome := branchOutcome{branch: branch}
	matched := make([]model.MatchedLine, 0, len(lines))
	total := 0.0
	timedOut := false

	for _, line := range lines {
		records, err := s.prices.SearchBranch(branchCtx, branch, line)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				timedOut = true
			} else {
				outcome.storeErr = true
			}
			break
		}
		if len(records) == 0 {
			continue
		}

		record := records[0]
		lineTotal := record.Price * float64(line.Quantity)
		total += lineTotal
		matched = append(matched, model.MatchedLine{
			ItemName:  line.ItemName,
			Quantity:  line.Quantity,
			Price:     record.Price,
			LineTotal: lineTotal,
			Resolved:  record,
			UnitPrice: s.normalizer.PricePerUnit(record.ItemName, record.Price),
		})
		outcome.resolved++
	}

	switch {
	case timedOut:
		metrics.RecordBranchResolution("timeout")
	case outcome.storeErr:
		metrics.RecordBranchResolution("error")
	case outcome.resolved < len(lines):
		metrics.RecordBranchResolution("incomplete")
	default:
		metrics.RecordBranchResolution("complete")
		outcome.total = &model.BranchCartTotal{
			Chain:      branch.Chain,
			BranchID:   branch.BranchID,
			TotalPrice: total,
			Lines:      matched,
		}
	}
	return outcome
}

// cityBranches returns the branch list for a city, from the cache when
// one is configured.
func (s *CartOptimizerService) cityBranches(ctx context.Context, city string) ([]model.Branch, error) {
	if s.branches != nil {
		if branches, ok := s.branches.Get(city); ok {
			return branches, nil
		}
	}

	branches, err := s.prices.BranchesInCity(ctx, city)
	if err != nil {
		return nil, err
	}

	if s.branches != nil && len(branches) > 0 {
		s.branches.Set(city, branches)
	}
	return branches, nil
}

// validateCart rejects carts the store could never price.
func validateCart(city string, lines []model.CartLine) error {
	if city == "" {
		return &model.InvalidInputError{Field: "city", Reason: "must not be empty"}
	}
	if len(lines) == 0 {
		return &model.InvalidInputError{Field: "items", Reason: "must not be empty"}
	}
	for _, line := range lines {
		if line.ItemName == "" && line.ItemCode == "" {
			return &model.InvalidInputError{Field: "item_name", Reason: "must not be empty"}
		}
		if line.Quantity < 1 {
			return &model.InvalidInputError{Field: "quantity", Reason: "must be at least 1"}
		}
	}
	return nil
}
