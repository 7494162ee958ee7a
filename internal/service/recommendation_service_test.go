package service

import (
	"testing"

	"github.com/crumbworks/bakeops/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recByType(recs []domain.Recommendation, typ string) *domain.Recommendation {
	for i := range recs {
		if recs[i].Type == typ {
			return &recs[i]
		}
	}
	return nil
}

func TestAllFourRulesFire(t *testing.T) {
	profits := []domain.RecipeProfit{
		{RecipeID: 1, Name: "Macaron", Margin: 75, UnitsSold: 5, TotalProfit: 50},
		{RecipeID: 2, Name: "Baguette", Margin: 12, UnitsSold: 40, TotalProfit: 10},
		{RecipeID: 3, Name: "Croissant", Margin: 45, UnitsSold: 20, TotalProfit: 30},
	}
	lowStock := []domain.LowStockItem{
		{Ingredient: domain.Ingredient{Name: "Butter"}, Urgency: domain.UrgencyCritical},
		{Ingredient: domain.Ingredient{Name: "Flour"}, Urgency: domain.UrgencyCritical},
		{Ingredient: domain.Ingredient{Name: "Sugar"}, Urgency: domain.UrgencyWarning},
	}

	recs := BuildRecommendations(profits, lowStock)
	require.Len(t, recs, 4)

	promote := recByType(recs, "promote")
	require.NotNil(t, promote)
	assert.Equal(t, "high", promote.Priority)
	assert.Contains(t, promote.Message, "Macaron")

	optimize := recByType(recs, "optimize")
	require.NotNil(t, optimize)
	assert.Equal(t, "medium", optimize.Priority)
	assert.Contains(t, optimize.Message, "Baguette")

	// Macaron earns the most in total but Baguette sells the most units.
	insight := recByType(recs, "insight")
	require.NotNil(t, insight)
	assert.Contains(t, insight.Message, "Macaron")
	assert.Contains(t, insight.Message, "Baguette")

	urgent := recByType(recs, "urgent")
	require.NotNil(t, urgent)
	assert.Equal(t, "critical", urgent.Priority)
	assert.Contains(t, urgent.Message, "Butter")
	assert.Contains(t, urgent.Message, "Flour")
	assert.NotContains(t, urgent.Message, "Sugar")
}

func TestNoRulesFireOnQuietData(t *testing.T) {
	profits := []domain.RecipeProfit{
		{RecipeID: 1, Name: "Scone", Margin: 40, UnitsSold: 10, TotalProfit: 20},
	}

	recs := BuildRecommendations(profits, nil)
	assert.Empty(t, recs)
}

func TestUrgentNamesAreCapped(t *testing.T) {
	lowStock := []domain.LowStockItem{
		{Ingredient: domain.Ingredient{Name: "A"}, Urgency: domain.UrgencyCritical},
		{Ingredient: domain.Ingredient{Name: "B"}, Urgency: domain.UrgencyCritical},
		{Ingredient: domain.Ingredient{Name: "C"}, Urgency: domain.UrgencyCritical},
		{Ingredient: domain.Ingredient{Name: "D"}, Urgency: domain.UrgencyCritical},
	}

	recs := BuildRecommendations(nil, lowStock)
	require.Len(t, recs, 1)
	assert.NotContains(t, recs[0].Message, "D")
}

func TestInsightSilentWhenBestProfitIsBestSeller(t *testing.T) {
	profits := []domain.RecipeProfit{
		{RecipeID: 1, Name: "Croissant", Margin: 50, UnitsSold: 40, TotalProfit: 60},
		{RecipeID: 2, Name: "Scone", Margin: 45, UnitsSold: 10, TotalProfit: 20},
	}

	recs := BuildRecommendations(profits, nil)
	assert.Nil(t, recByType(recs, "insight"))
}
