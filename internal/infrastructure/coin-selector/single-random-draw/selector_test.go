package srd_selector_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/go-coinselect/internal/core/domain"
	srd_selector "github.com/vulpemventures/go-coinselect/internal/infrastructure/coin-selector/single-random-draw"
)

func setupCandidates() []domain.OutputGroup {
	return []domain.OutputGroup{
		{Value: 1000, Weight: 100, InputCount: 1},
		{Value: 2000, Weight: 200, InputCount: 1},
		{Value: 3000, Weight: 300, InputCount: 1},
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

func TestSelectSuccessful(t *testing.T) {
	candidates := setupCandidates()
	opts := setupOptions(2500)
	selector := srd_selector.NewSingleRandomDrawCoinSelector()

	// The draw order is random, only the sufficiency and index validity
	// properties can be asserted.
	for i := 0; i < 10; i++ {
		result, err := selector.Select(candidates, opts)
		require.NoError(t, err)
		require.NotEmpty(t, result.SelectedInputs)

		var accumulatedValue, accumulatedWeight uint64
		seen := make(map[int]struct{})
		for _, index := range result.SelectedInputs {
			require.Less(t, index, len(candidates))
			_, duplicate := seen[index]
			require.False(t, duplicate)
			seen[index] = struct{}{}
			accumulatedValue += candidates[index].Value
			accumulatedWeight += uint64(candidates[index].Weight)
		}

		estimatedFee, err := domain.CalcFee(accumulatedWeight, opts.TargetFeeRate)
		require.NoError(t, err)
		require.GreaterOrEqual(
			t, accumulatedValue,
			opts.TargetValue+opts.MinChangeValue+estimatedFee,
		)
	}
}

func TestSelectInsufficientFunds(t *testing.T) {
	candidates := setupCandidates()
	opts := setupOptions(7000)
	selector := srd_selector.NewSingleRandomDrawCoinSelector()

	result, err := selector.Select(candidates, opts)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	require.Nil(t, result)
}

func TestSelectInvalidFeeRate(t *testing.T) {
	candidates := setupCandidates()
	selector := srd_selector.NewSingleRandomDrawCoinSelector()

	opts := setupOptions(2500)
	opts.TargetFeeRate = -1
	_, err := selector.Select(candidates, opts)
	require.ErrorIs(t, err, domain.ErrNonPositiveFeeRate)
}
