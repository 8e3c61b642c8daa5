// Package optimizer picks the conflict-free set of eligible subsidies with the
// largest aggregate payout and ranks individual payouts for comparison.
//
// Exhaustive search enumerates all 2^N-1 subsets of the eligible list, which
// is fine for a hand-maintained catalog of a few dozen programs at most.
// Above MaxExhaustive eligible subsidies the search degrades to a greedy pass.
package optimizer

import (
	"sort"
	"subsidyopt/internal/calc"
	"subsidyopt/internal/models"
)

// DefaultMaxExhaustive is the largest eligible count searched exhaustively.
const DefaultMaxExhaustive = 20

// maxEnumerable bounds subset masks to a uint64.
const maxEnumerable = 62

const (
	StrategyExhaustive = "exhaustive"
	StrategyGreedy     = "greedy"
)

// Options tunes the search. The zero value uses DefaultMaxExhaustive.
type Options struct {
	Calc          calc.Options
	MaxExhaustive int
}

func (o Options) limit() int {
	n := o.MaxExhaustive
	if n <= 0 {
		n = DefaultMaxExhaustive
	}
	if n > maxEnumerable {
		n = maxEnumerable
	}
	return n
}

// conflicts returns, per index, the bitmask of other indexes it cannot be combined with.
// A pair conflicts when either member lists the other's id.
func conflicts(defs []models.SubsidyDefinition) []uint64 {
	out := make([]uint64, len(defs))
	for i := range defs {
		for j := range defs {
			if i == j {
				continue
			}
			if defs[i].Excludes(defs[j].ID) || defs[j].Excludes(defs[i].ID) {
				out[i] |= 1 << uint(j)
			}
		}
	}
	return out
}

func compatible(mask uint64, conf []uint64) bool {
	for i := range conf {
		if mask&(1<<uint(i)) != 0 && mask&conf[i] != 0 {
			return false
		}
	}
	return true
}

// Compatible reports whether no member of defs excludes another member.
func Compatible(defs []models.SubsidyDefinition) bool {
	for i := range defs {
		for j := range defs {
			if i != j && defs[i].Excludes(defs[j].ID) {
				return false
			}
		}
	}
	return true
}

// Combinations lists every non-empty conflict-free subset of eligible in
// bit-index order. It returns nil when eligible is empty or larger than
// opts.MaxExhaustive (DefaultMaxExhaustive when unset), the same bound
// Optimize searches exhaustively under.
func Combinations(eligible []models.SubsidyDefinition, opts Options) [][]models.SubsidyDefinition {
	n := len(eligible)
	if n == 0 || n > opts.limit() {
		return nil
	}
	var out [][]models.SubsidyDefinition
	eachCompatible(n, conflicts(eligible), func(mask uint64) {
		out = append(out, pick(eligible, mask))
	})
	return out
}

// eachCompatible calls fn for every conflict-free non-empty mask over n items
// in ascending order. n must not exceed maxEnumerable.
func eachCompatible(n int, conf []uint64, fn func(mask uint64)) {
	for mask := uint64(1); mask < 1<<uint(n); mask++ {
		if compatible(mask, conf) {
			fn(mask)
		}
	}
}

func pick[T any](items []T, mask uint64) []T {
	var out []T
	for i := range items {
		if mask&(1<<uint(i)) != 0 {
			out = append(out, items[i])
		}
	}
	return out
}

// FindOptimal returns the conflict-free combination with the greatest total
// payout for p, or nil when eligible is empty.
func FindOptimal(eligible []models.SubsidyDefinition, p models.Profile, opts Options) *models.Combination {
	return Optimize(eligible, calc.CalculateAll(eligible, p, opts.Calc), opts)
}

// Optimize is FindOptimal over precomputed amounts; amounts[i] belongs to eligible[i].
// Among equal totals the subset with the lowest mask wins. When every subset
// totals zero the first compatible subset is returned.
func Optimize(eligible []models.SubsidyDefinition, amounts []models.CalculatedAmount, opts Options) *models.Combination {
	n := len(eligible)
	if n == 0 || len(amounts) != n {
		return nil
	}
	if n > opts.limit() {
		return greedy(eligible, amounts)
	}

	best, bestSum := uint64(0), int64(-1)
	eachCompatible(n, conflicts(eligible), func(mask uint64) {
		var sum int64
		for i := 0; i < n; i++ {
			if mask&(1<<uint(i)) != 0 {
				sum += amounts[i].TotalAmount
			}
		}
		if sum > bestSum {
			best, bestSum = mask, sum
		}
	})
	return combination(pick(amounts, best), StrategyExhaustive)
}

// greedy takes subsidies by descending amount, skipping any that conflict with
// one already taken. Equal amounts keep catalog order.
func greedy(eligible []models.SubsidyDefinition, amounts []models.CalculatedAmount) *models.Combination {
	order := make([]int, len(amounts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return amounts[order[a]].TotalAmount > amounts[order[b]].TotalAmount
	})
	taken := make([]bool, len(amounts))
	var chosen []models.SubsidyDefinition
	for _, i := range order {
		candidate := append(chosen[:len(chosen):len(chosen)], eligible[i])
		if Compatible(candidate) {
			chosen = candidate
			taken[i] = true
		}
	}
	var members []models.CalculatedAmount
	for i, ok := range taken {
		if ok {
			members = append(members, amounts[i])
		}
	}
	return combination(members, StrategyGreedy)
}

func combination(members []models.CalculatedAmount, strategy string) *models.Combination {
	c := &models.Combination{Subsidies: members, Count: len(members), Strategy: strategy}
	for _, m := range members {
		c.TotalAmount += m.TotalAmount
	}
	return c
}

// Compare ranks calculations by descending amount. Equal amounts keep their
// input order. PercentageOfBest is 0 for every entry when the top amount is 0.
func Compare(calcs []models.CalculatedAmount) []models.RankedCalculation {
	sorted := make([]models.CalculatedAmount, len(calcs))
	copy(sorted, calcs)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].TotalAmount > sorted[b].TotalAmount
	})
	out := make([]models.RankedCalculation, len(sorted))
	var top int64
	if len(sorted) > 0 {
		top = sorted[0].TotalAmount
	}
	for i, c := range sorted {
		out[i] = models.RankedCalculation{CalculatedAmount: c, Rank: i + 1}
		if top > 0 {
			out[i].PercentageOfBest = float64(c.TotalAmount) / float64(top) * 100
		}
	}
	return out
}
