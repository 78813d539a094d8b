package promo

import "restaurant-pos/internal/models"

// Strategy inspects the current cart lines and yields zero or more
// promotional annotations. Strategies must be pure: they read the lines
// and never mutate them.
type Strategy interface {
	Evaluate(lines []models.LineItem) []models.PromotionAnnotation
}

// StrategyFunc adapts a plain function to the Strategy interface
type StrategyFunc func(lines []models.LineItem) []models.PromotionAnnotation

func (f StrategyFunc) Evaluate(lines []models.LineItem) []models.PromotionAnnotation {
	return f(lines)
}

// BogoBadge is the default promotion strategy: two or more line items
// earn a "BOGO offer applied" annotation. The annotation is informational
// only and carries no discount, so totals are unchanged.
type BogoBadge struct{}

func (BogoBadge) Evaluate(lines []models.LineItem) []models.PromotionAnnotation {
	if len(lines) < 2 {
		return nil
	}
	return []models.PromotionAnnotation{
		{Label: "BOGO offer applied", DiscountAmount: 0},
	}
}

// Default returns the standard promotion strategy
func Default() Strategy {
	return BogoBadge{}
}

// None returns a strategy that never yields annotations
func None() Strategy {
	return StrategyFunc(func([]models.LineItem) []models.PromotionAnnotation {
		return nil
	})
}
