// Package engine runs the full analysis pipeline: eligibility, per-subsidy
// amounts, the optimal combination and the ranked comparison.
//
// Analyze is a pure function of its arguments. It performs no I/O and holds
// no state, so concurrent calls against the same catalog need no locking.
package engine

import (
	"subsidyopt/internal/calc"
	"subsidyopt/internal/eligibility"
	"subsidyopt/internal/models"
	"subsidyopt/internal/optimizer"
)

// Catalog is the read-only subsidy list an analysis runs against.
type Catalog interface {
	Subsidies() []models.SubsidyDefinition
	Version() string
}

// Options configures an analysis. The zero value uses the defaults.
type Options struct {
	GenderPolicy  calc.GenderPolicy
	MaxExhaustive int
}

func (o Options) optimizer() optimizer.Options {
	return optimizer.Options{
		Calc:          calc.Options{GenderPolicy: o.GenderPolicy},
		MaxExhaustive: o.MaxExhaustive,
	}
}

// Analyze evaluates p against every subsidy in c.
func Analyze(c Catalog, p models.Profile, opts Options) models.AnalysisResult {
	o := opts.optimizer()
	eligible, rejected := eligibility.Partition(c.Subsidies(), p)
	amounts := calc.CalculateAll(eligible, p, o.Calc)
	return models.AnalysisResult{
		CatalogVersion: c.Version(),
		Eligible:       eligible,
		NotEligible:    rejected,
		Calculations:   amounts,
		Comparison:     optimizer.Compare(amounts),
		Optimal:        optimizer.Optimize(eligible, amounts, o),
	}
}

// Faults returns the calculation faults among amounts keyed by subsidy id.
func Faults(amounts []models.CalculatedAmount) map[string]string {
	out := map[string]string{}
	for _, a := range amounts {
		if a.Fault != "" {
			out[a.SubsidyID] = a.Fault
		}
	}
	return out
}
