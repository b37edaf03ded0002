package service

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/basketly/price-service/internal/domain/model"
)

// unitTokens maps the Hebrew quantity tokens that appear in chain
// product names to their units. Order does not matter here; the
// alternation is sorted longest-first when the patterns are built.
var unitTokens = map[string]model.Unit{
	"גרם":  model.UnitGram,
	"ג":    model.UnitGram,
	"גר":   model.UnitGram,
	"ג'":   model.UnitGram,
	"קג":   model.UnitKilogram,
	"ק\"ג": model.UnitKilogram,
	"קילו": model.UnitKilogram,
	"ליטר": model.UnitLiter,
	"ל":    model.UnitLiter,
	"מל":   model.UnitMilliliter,
	"מ\"ל": model.UnitMilliliter,
	"יחידות": model.UnitCount,
}

// compactTokens is the narrower abbreviation set allowed to sit
// directly against the number ("80ג"). Longer words are excluded to
// avoid false positives on names that merely start with these letters.
var compactTokens = []string{"ג", "גר", "קג", "ל", "מל"}

// UnitNormalizer parses a product name for an embedded quantity and
// computes a price normalized to a canonical unit.
type UnitNormalizer interface {
	ExtractQuantity(name string) (model.NormalizedQuantity, bool)
	PricePerUnit(name string, price float64) *model.UnitPrice
}

// UnitNormalizerService implements UnitNormalizer with patterns
// compiled once at construction.
type UnitNormalizerService struct {
	pattern        *regexp.Regexp
	compactPattern *regexp.Regexp
}

// NewUnitNormalizerService builds the token patterns and returns a
// ready normalizer. Construction happens once at startup; the service
// is immutable and safe for concurrent use.
func NewUnitNormalizerService() *UnitNormalizerService {
	return &UnitNormalizerService{
		pattern:        regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(` + tokenAlternation(allTokens()) + `)`),
		compactPattern: regexp.MustCompile(`(\d+(?:\.\d+)?)(` + tokenAlternation(compactTokens) + `)`),
	}
}

// allTokens returns every known unit token.
func allTokens() []string {
	tokens := make([]string, 0, len(unitTokens))
	for t := range unitTokens {
		tokens = append(tokens, t)
	}
	return tokens
}

// tokenAlternation builds a regexp alternation with longer tokens
// first, so that "קילו" wins over "ק" and "ליטר" over "ל" under the
// engine's leftmost-first alternation semantics.
func tokenAlternation(tokens []string) string {
	sorted := make([]string, len(tokens))
	copy(sorted, tokens)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	quoted := make([]string, len(sorted))
	for i, t := range sorted {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return strings.Join(quoted, "|")
}

// ExtractQuantity scans a product name for a number followed by a unit
// token, optionally separated by whitespace. If that fails it retries
// with the compact pattern for forms like "80ג". The first match in
// left-to-right order wins; multiple quantity mentions in one name are
// not reconciled.
func (s *UnitNormalizerService) ExtractQuantity(name string) (model.NormalizedQuantity, bool) {
	match := s.pattern.FindStringSubmatch(name)
	if match == nil {
		match = s.compactPattern.FindStringSubmatch(name)
	}
	if match == nil {
		return model.NormalizedQuantity{}, false
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return model.NormalizedQuantity{}, false
	}

	unit, ok := unitTokens[match[2]]
	if !ok {
		return model.NormalizedQuantity{}, false
	}

	return model.NormalizedQuantity{Value: value, Unit: unit}, true
}

// PricePerUnit computes the canonical-unit price for a product name.
// Returns nil when no quantity is embedded or the quantity is zero;
// that only degrades unit-price display, never totals.
func (s *UnitNormalizerService) PricePerUnit(name string, price float64) *model.UnitPrice {
	quantity, ok := s.ExtractQuantity(name)
	if !ok || quantity.Value == 0 {
		return nil
	}

	canonical, multiplier := quantity.Unit.Canonical()
	value := quantity.Value * multiplier

	return &model.UnitPrice{
		PricePerUnit: price / value,
		Unit:         canonical.String(),
		Value:        value,
	}
}
