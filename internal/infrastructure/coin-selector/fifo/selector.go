package fifo_selector

import (
	"sort"

	"github.com/vulpemventures/go-coinselect/internal/core/domain"
	"github.com/vulpemventures/go-coinselect/internal/core/ports"
)

type selector struct{}

// NewFifoCoinSelector returns a selector accumulating candidates oldest
// first, by ascending creation sequence. Candidates without a creation
// sequence are considered last, in their original relative order. The
// strategy is fully deterministic.
func NewFifoCoinSelector() ports.CoinSelector {
	return &selector{}
}

func (s *selector) Select(
	candidates []domain.OutputGroup, opts domain.CoinSelectionOptions,
) (*domain.SelectionOutput, error) {
	if _, err := domain.CalcFee(uint64(opts.BaseWeight), opts.TargetFeeRate); err != nil {
		return nil, err
	}

	type indexedGroup struct {
		index int
		group domain.OutputGroup
	}

	sortedInputs := make([]indexedGroup, 0, len(candidates))
	for i, group := range candidates {
		if group.CreationSequence != nil {
			sortedInputs = append(sortedInputs, indexedGroup{index: i, group: group})
		}
	}
	sort.SliceStable(sortedInputs, func(i, j int) bool {
		return *sortedInputs[i].group.CreationSequence < *sortedInputs[j].group.CreationSequence
	})
	for i, group := range candidates {
		if group.CreationSequence == nil {
			sortedInputs = append(sortedInputs, indexedGroup{index: i, group: group})
		}
	}

	var accumulatedValue, accumulatedWeight, estimatedFee uint64
	selectedInputs := make([]int, 0, len(sortedInputs))

	for _, in := range sortedInputs {
		// The feerate was validated upfront, this cannot fail.
		estimatedFee, _ = domain.CalcFee(accumulatedWeight, opts.TargetFeeRate)
		if accumulatedValue >= s.requiredValue(opts, estimatedFee) {
			break
		}
		accumulatedValue += in.group.Value
		accumulatedWeight += uint64(in.group.Weight)
		selectedInputs = append(selectedInputs, in.index)
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
	return opts.TargetValue + fee + opts.MinChangeValue
}
