package branchandbound_selector_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/go-coinselect/internal/core/domain"
	branchandbound_selector "github.com/vulpemventures/go-coinselect/internal/infrastructure/coin-selector/branch-and-bound"
)

func setupCandidates() []domain.OutputGroup {
	return []domain.OutputGroup{
		{Value: 55000, Weight: 500, InputCount: 1},
		{Value: 400, Weight: 200, InputCount: 1},
		{Value: 40000, Weight: 300, InputCount: 1},
		{Value: 25000, Weight: 100, InputCount: 1},
		{Value: 35000, Weight: 150, InputCount: 1},
		{Value: 600, Weight: 250, InputCount: 1},
		{Value: 30000, Weight: 120, InputCount: 1},
		{Value: 5000, Weight: 50, InputCount: 1},
	}
}

func setupOptions(targetValue uint64) domain.CoinSelectionOptions {
	return domain.CoinSelectionOptions{
		TargetValue:    targetValue,
		TargetFeeRate:  0.5,
		MinAbsoluteFee: 0,
		BaseWeight:     10,
		ChangeWeight:   50,
		ChangeCost:     10,
		CostPerInput:   20,
		CostPerOutput:  10,
		MinChangeValue: 500,
		ExcessStrategy: domain.ExcessToChange,
	}
}

func TestSelectMatchInAcceptanceBand(t *testing.T) {
	candidates := setupCandidates()
	opts := setupOptions(5730)
	selector := branchandbound_selector.NewBranchAndBoundCoinSelector()

	result, err := selector.Select(candidates, opts)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.ElementsMatch(t, []int{1, 5, 7}, result.SelectedInputs)

	// The accumulated effective value must land in the acceptance band
	// above the match target.
	baseFee, err := domain.CalcFee(uint64(opts.BaseWeight), opts.TargetFeeRate)
	require.NoError(t, err)
	targetForMatch := opts.TargetValue + baseFee + opts.CostPerOutput
	matchRange := opts.CostPerInput + opts.CostPerOutput

	var accEffValue uint64
	seen := make(map[int]struct{})
	for _, index := range result.SelectedInputs {
		require.Less(t, index, len(candidates))
		_, duplicate := seen[index]
		require.False(t, duplicate)
		seen[index] = struct{}{}

		effValue, err := domain.EffectiveValue(candidates[index], opts.TargetFeeRate)
		require.NoError(t, err)
		accEffValue += effValue
	}
	require.GreaterOrEqual(t, accEffValue, targetForMatch)
	require.LessOrEqual(t, accEffValue, targetForMatch+matchRange)
}

func TestSelectNoSolution(t *testing.T) {
	candidates := setupCandidates()
	var totalValue uint64
	for _, c := range candidates {
		totalValue += c.Value
	}
	opts := setupOptions(totalValue + 1000)
	selector := branchandbound_selector.NewBranchAndBoundCoinSelector()

	result, err := selector.Select(candidates, opts)
	require.ErrorIs(t, err, domain.ErrNoSolutionFound)
	require.Nil(t, result)
}

func BenchmarkSelect(b *testing.B) {
	candidates := setupCandidates()
	opts := setupOptions(5730)
	selector := branchandbound_selector.NewBranchAndBoundCoinSelector()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		selector.Select(candidates, opts)
	}
}

func TestSelectInvalidFeeRate(t *testing.T) {
	candidates := setupCandidates()
	selector := branchandbound_selector.NewBranchAndBoundCoinSelector()

	opts := setupOptions(5730)
	opts.TargetFeeRate = 0
	_, err := selector.Select(candidates, opts)
	require.ErrorIs(t, err, domain.ErrNonPositiveFeeRate)

	opts.TargetFeeRate = 2000
	_, err = selector.Select(candidates, opts)
	require.ErrorIs(t, err, domain.ErrAbnormallyHighFeeRate)
}
