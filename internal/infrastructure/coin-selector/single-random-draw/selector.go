package srd_selector

import (
	"math/rand"
	"time"

	"github.com/vulpemventures/go-coinselect/internal/core/domain"
	"github.com/vulpemventures/go-coinselect/internal/core/ports"
)

type selector struct{}

// NewSingleRandomDrawCoinSelector returns a selector accumulating candidates
// in a uniformly shuffled order until the target is covered. It models a
// wallet spending without optimizing the order, useful as a
// privacy-preserving baseline and as a fallback when heuristic-driven
// strategies fail.
func NewSingleRandomDrawCoinSelector() ports.CoinSelector {
	return &selector{}
}

func (s *selector) Select(
	candidates []domain.OutputGroup, opts domain.CoinSelectionOptions,
) (*domain.SelectionOutput, error) {
	if _, err := domain.CalcFee(uint64(opts.BaseWeight), opts.TargetFeeRate); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// The output refers to candidates by their original index, so the
	// indices are shuffled along with the groups.
	randomizedInputs := make([]int, len(candidates))
	for i := range randomizedInputs {
		randomizedInputs[i] = i
	}
	rng.Shuffle(len(randomizedInputs), func(i, j int) {
		randomizedInputs[i], randomizedInputs[j] = randomizedInputs[j], randomizedInputs[i]
	})

	var accumulatedValue, accumulatedWeight, estimatedFee uint64
	selectedInputs := make([]int, 0, len(randomizedInputs))

	for _, index := range randomizedInputs {
		selectedInputs = append(selectedInputs, index)
		accumulatedValue += candidates[index].Value
		accumulatedWeight += uint64(candidates[index].Weight)
		// The feerate was validated upfront, this cannot fail.
		estimatedFee, _ = domain.CalcFee(accumulatedWeight, opts.TargetFeeRate)

		if accumulatedValue >= s.requiredValue(opts, estimatedFee) {
			break
		}
	}

	if accumulatedValue < s.requiredValue(opts, estimatedFee) {
		return nil, domain.ErrInsufficientFunds
	}

	waste := domain.CalcWaste(opts, accumulatedValue, accumulatedWeight, estimatedFee)
	return &domain.SelectionOutput{
		SelectedInputs: selectedInputs,
		Waste:          domain.WasteMetric(waste),
	}, nil
}

func (s *selector) requiredValue(
	opts domain.CoinSelectionOptions, estimatedFee uint64,
) uint64 {
	fee := estimatedFee
	if opts.MinAbsoluteFee > fee {
		fee = opts.MinAbsoluteFee
	}
	return opts.TargetValue + opts.MinChangeValue + fee
}
