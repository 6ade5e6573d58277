package lowestlarger_selector_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/go-coinselect/internal/core/domain"
	lowestlarger_selector "github.com/vulpemventures/go-coinselect/internal/infrastructure/coin-selector/lowest-larger"
)

func setupCandidates() []domain.OutputGroup {
	return []domain.OutputGroup{
		{Value: 100, Weight: 100, InputCount: 1},
		{Value: 1500, Weight: 200, InputCount: 1},
		{Value: 3400, Weight: 300, InputCount: 1},
		{Value: 2200, Weight: 150, InputCount: 1},
		{Value: 1190, Weight: 200, InputCount: 1},
		{Value: 3300, Weight: 100, InputCount: 1},
		{Value: 1000, Weight: 190, InputCount: 1},
		{Value: 2000, Weight: 210, InputCount: 1},
		{Value: 3000, Weight: 300, InputCount: 1},
		{Value: 2250, Weight: 250, InputCount: 1},
		{Value: 190, Weight: 220, InputCount: 1},
		{Value: 1750, Weight: 170, InputCount: 1},
	}
}

func setupOptions(targetValue uint64) domain.CoinSelectionOptions {
	longTermRate := 0.4
	return domain.CoinSelectionOptions{
		TargetValue:     targetValue,
		TargetFeeRate:   0.4,
		LongTermFeeRate: &longTermRate,
		MinAbsoluteFee:  0,
		BaseWeight:      10,
		ChangeWeight:    50,
		ChangeCost:      10,
		CostPerInput:    20,
		CostPerOutput:   10,
		MinChangeValue:  500,
		ExcessStrategy:  domain.ExcessToChange,
	}
}

func TestSelectPrefersSmallestSufficientCandidate(t *testing.T) {
	candidates := []domain.OutputGroup{
		{Value: 1000, Weight: 100, InputCount: 1},
		{Value: 2000, Weight: 200, InputCount: 1},
		{Value: 50000, Weight: 300, InputCount: 1},
		{Value: 60000, Weight: 400, InputCount: 1},
	}
	opts := setupOptions(30000)
	selector := lowestlarger_selector.NewLowestLargerCoinSelector()

	result, err := selector.Select(candidates, opts)
	require.NoError(t, err)
	// The smallest candidate able to cover the target alone wins over the
	// larger one and over any combination of the small ones.
	require.Equal(t, []int{2}, result.SelectedInputs)
}

func TestSelectTopsUpWithLargestOfTheSmall(t *testing.T) {
	candidates := []domain.OutputGroup{
		{Value: 500, Weight: 100, InputCount: 1},
		{Value: 4000, Weight: 100, InputCount: 1},
		{Value: 6000, Weight: 100, InputCount: 1},
	}
	opts := setupOptions(9000)
	selector := lowestlarger_selector.NewLowestLargerCoinSelector()

	result, err := selector.Select(candidates, opts)
	require.NoError(t, err)
	// No single candidate covers 9000: the largest of the small ones are
	// accumulated, largest first.
	require.Equal(t, []int{2, 1}, result.SelectedInputs)
}

func TestSelectSuccessful(t *testing.T) {
	candidates := setupCandidates()
	opts := setupOptions(20000)
	selector := lowestlarger_selector.NewLowestLargerCoinSelector()

	result, err := selector.Select(candidates, opts)
	require.NoError(t, err)
	require.NotEmpty(t, result.SelectedInputs)

	var accumulatedValue uint64
	seen := make(map[int]struct{})
	for _, index := range result.SelectedInputs {
		require.Less(t, index, len(candidates))
		_, duplicate := seen[index]
		require.False(t, duplicate)
		seen[index] = struct{}{}
		accumulatedValue += candidates[index].Value
	}
	require.GreaterOrEqual(t, accumulatedValue, opts.TargetValue+opts.MinChangeValue)
}

func TestSelectInsufficientFunds(t *testing.T) {
	candidates := setupCandidates()
	opts := setupOptions(40000)
	selector := lowestlarger_selector.NewLowestLargerCoinSelector()

	result, err := selector.Select(candidates, opts)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	require.Nil(t, result)
}
