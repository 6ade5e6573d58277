package branchandbound_selector

import (
	"math/rand"
	"sort"
	"time"

	"github.com/vulpemventures/go-coinselect/internal/core/domain"
	"github.com/vulpemventures/go-coinselect/internal/core/ports"
)

// DefaultMaxTries caps the number of recursive steps of one search.
const DefaultMaxTries uint32 = 1_000_000

type selector struct {
	maxTries uint32
}

// NewBranchAndBoundCoinSelector returns a selector performing a randomized
// branch and bound search for a subset whose accumulated effective value
// falls within a small acceptance band above the target. It tends to find
// near-exact matches leaving minimal excess, but degrades to no-solution
// whenever no combination lands in the band within the try budget, even if
// simple sufficiency is achievable. Callers needing a guaranteed-sufficient
// fallback must consult another selector.
func NewBranchAndBoundCoinSelector() ports.CoinSelector {
	return &selector{maxTries: DefaultMaxTries}
}

// NewBranchAndBoundCoinSelectorWithTries returns a branch and bound selector
// with a custom try budget.
func NewBranchAndBoundCoinSelectorWithTries(maxTries uint32) ports.CoinSelector {
	return &selector{maxTries: maxTries}
}

func (s *selector) Select(
	candidates []domain.OutputGroup, opts domain.CoinSelectionOptions,
) (*domain.SelectionOutput, error) {
	baseFee, err := domain.CalcFee(uint64(opts.BaseWeight), opts.TargetFeeRate)
	if err != nil {
		return nil, err
	}

	sortedInputs := make([]indexedGroup, 0, len(candidates))
	for i, group := range candidates {
		sortedInputs = append(sortedInputs, indexedGroup{index: i, group: group})
	}
	sort.SliceStable(sortedInputs, func(i, j int) bool {
		return sortedInputs[i].group.Value > sortedInputs[j].group.Value
	})

	// The feerate was validated above, effective values cannot fail anymore.
	effectiveValues := make([]uint64, len(sortedInputs))
	for i, in := range sortedInputs {
		effectiveValues[i], _ = domain.EffectiveValue(in.group, opts.TargetFeeRate)
	}

	search := &bnbSearch{
		inputs:          sortedInputs,
		effectiveValues: effectiveValues,
		targetForMatch:  opts.TargetValue + baseFee + opts.CostPerOutput,
		matchRange:      opts.CostPerInput + opts.CostPerOutput,
		triesLeft:       s.maxTries,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
		selected:        make([]int, 0, len(sortedInputs)),
	}

	selectedInputs := search.run(0, 0)
	if selectedInputs == nil {
		return nil, domain.ErrNoSolutionFound
	}

	var accumulatedValue, accumulatedWeight uint64
	for _, index := range selectedInputs {
		accumulatedValue += candidates[index].Value
		accumulatedWeight += uint64(candidates[index].Weight)
	}
	// The match target already embeds the fee, the waste metric must not
	// account for it twice.
	waste := domain.CalcWaste(opts, accumulatedValue, accumulatedWeight, 0)

	return &domain.SelectionOutput{
		SelectedInputs: selectedInputs,
		Waste:          domain.WasteMetric(waste),
	}, nil
}

type indexedGroup struct {
	index int
	group domain.OutputGroup
}

// bnbSearch explores the candidate list, sorted by descending value, depth
// first. A single growable path of original indices is shared across
// branches, every speculative inclusion is rolled back before trying the
// alternative branch.
type bnbSearch struct {
	inputs          []indexedGroup
	effectiveValues []uint64
	targetForMatch  uint64
	matchRange      uint64
	triesLeft       uint32
	rng             *rand.Rand
	selected        []int
}

func (b *bnbSearch) run(accEffValue uint64, depth int) []int {
	if accEffValue > b.targetForMatch+b.matchRange {
		return nil
	}
	if accEffValue >= b.targetForMatch {
		match := make([]int, len(b.selected))
		copy(match, b.selected)
		return match
	}
	if b.triesLeft == 0 || depth >= len(b.inputs) {
		return nil
	}
	b.triesLeft--

	// A coin flip decides whether the inclusion or the omission branch is
	// explored first, the other one is only visited if the first fails.
	if b.rng.Intn(2) == 0 {
		if match := b.withCurrent(accEffValue, depth); match != nil {
			return match
		}
		return b.run(accEffValue, depth+1)
	}

	if match := b.run(accEffValue, depth+1); match != nil {
		return match
	}
	return b.withCurrent(accEffValue, depth)
}

func (b *bnbSearch) withCurrent(accEffValue uint64, depth int) []int {
	b.selected = append(b.selected, b.inputs[depth].index)
	if match := b.run(accEffValue+b.effectiveValues[depth], depth+1); match != nil {
		return match
	}
	b.selected = b.selected[:len(b.selected)-1]
	return nil
}
