package engine

import (
	"github.com/piwi3910/AtlasPack/internal/model"
)

// ComparisonResult holds the layout and computed statistics for a single
// strategy.
type ComparisonResult struct {
	Strategy     model.Strategy
	Result       model.PackResult
	PagesUsed    int
	WastePercent float64
	Err          error
}

// CompareStrategies packs the same sprites once per strategy so the layouts
// can be compared side by side. Settings other than the strategy are shared.
func CompareStrategies(settings model.PackSettings, sprites []model.Sprite) []ComparisonResult {
	strategies := model.Strategies()
	results := make([]ComparisonResult, 0, len(strategies))

	for _, st := range strategies {
		s := settings
		s.Strategy = st
		result, err := New(s).Optimize(sprites)

		cr := ComparisonResult{Strategy: st, Result: result, Err: err}
		if err == nil {
			cr.PagesUsed = len(result.Pages)
			cr.WastePercent = 100.0 - result.TotalEfficiency()
		}
		results = append(results, cr)
	}

	return results
}
