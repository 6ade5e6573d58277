package lowestlarger_selector

import (
	"sort"

	"github.com/vulpemventures/go-coinselect/internal/core/domain"
	"github.com/vulpemventures/go-coinselect/internal/core/ports"
)

type selector struct{}

// NewLowestLargerCoinSelector returns a selector preferring the smallest
// single candidate able to cover the target on its own, falling back to the
// largest of the smaller ones to top up. The goal is to spend the fewest,
// smallest-sufficient inputs and reduce the future cost of spending many
// small ones. The strategy is fully deterministic.
func NewLowestLargerCoinSelector() ports.CoinSelector {
	return &selector{}
}

func (s *selector) Select(
	candidates []domain.OutputGroup, opts domain.CoinSelectionOptions,
) (*domain.SelectionOutput, error) {
	if _, err := domain.CalcFee(uint64(opts.BaseWeight), opts.TargetFeeRate); err != nil {
		return nil, err
	}
	target := opts.TargetValue + opts.MinChangeValue

	type indexedGroup struct {
		index          int
		group          domain.OutputGroup
		effectiveValue uint64
	}

	sortedInputs := make([]indexedGroup, 0, len(candidates))
	for i, group := range candidates {
		// The feerate was validated upfront, this cannot fail.
		effectiveValue, _ := domain.EffectiveValue(group, opts.TargetFeeRate)
		sortedInputs = append(sortedInputs, indexedGroup{
			index:          i,
			group:          group,
			effectiveValue: effectiveValue,
		})
	}
	sort.SliceStable(sortedInputs, func(i, j int) bool {
		return sortedInputs[i].effectiveValue < sortedInputs[j].effectiveValue
	})

	// Boundary between the candidates too small to cover the target on
	// their own and those large enough to.
	partition := sort.Search(len(sortedInputs), func(i int) bool {
		fee, _ := domain.CalcFee(uint64(sortedInputs[i].group.Weight), opts.TargetFeeRate)
		return sortedInputs[i].group.Value > target+fee
	})

	var accumulatedValue, accumulatedWeight, estimatedFee uint64
	selectedInputs := make([]int, 0, len(sortedInputs))

	accumulate := func(in indexedGroup) bool {
		accumulatedValue += in.group.Value
		accumulatedWeight += uint64(in.group.Weight)
		estimatedFee, _ = domain.CalcFee(accumulatedWeight, opts.TargetFeeRate)
		selectedInputs = append(selectedInputs, in.index)
		return accumulatedValue >= target+maxFee(estimatedFee, opts.MinAbsoluteFee)
	}

	// Walk the large-enough candidates smallest first: the very first one
	// usually suffices alone.
	for _, in := range sortedInputs[partition:] {
		if accumulate(in) {
			break
		}
	}

	// Top up with the too-small candidates, largest first.
	if accumulatedValue < target+maxFee(estimatedFee, opts.MinAbsoluteFee) {
		for i := partition - 1; i >= 0; i-- {
			if accumulate(sortedInputs[i]) {
				break
			}
		}
	}

	if accumulatedValue < target+maxFee(estimatedFee, opts.MinAbsoluteFee) {
		return nil, domain.ErrInsufficientFunds
	}

	waste := domain.CalcWaste(opts, accumulatedValue, accumulatedWeight, estimatedFee)
	return &domain.SelectionOutput{
		SelectedInputs: selectedInputs,
		Waste:          domain.WasteMetric(waste),
	}, nil
}

func maxFee(estimatedFee, minAbsoluteFee uint64) uint64 {
	if minAbsoluteFee > estimatedFee {
		return minAbsoluteFee
	}
	return estimatedFee
}
