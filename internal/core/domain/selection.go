package domain

import "fmt"

var (
	// ErrInsufficientFunds is returned when the candidates, even if all
	// selected, cannot cover target plus fees under a selector's
	// accumulation rule.
	ErrInsufficientFunds = fmt.Errorf("the input funds are insufficient")
	// ErrNoSolutionFound is returned when a bounded or randomized search
	// terminates without reaching the target for reasons other than raw
	// insufficiency.
	ErrNoSolutionFound = fmt.Errorf("no solution could be derived")
	// ErrNonPositiveFeeRate is returned for feerates <= 0.
	ErrNonPositiveFeeRate = fmt.Errorf("non-positive fee rate")
	// ErrAbnormallyHighFeeRate is returned for feerates above MaxFeeRate.
	ErrAbnormallyHighFeeRate = fmt.Errorf("abnormally high fee rate")
)

// WasteMetric measures the efficiency of a selection in currency units. It
// balances the fees paid now against the fees the wallet will pay over its
// lifetime, the lowest value identifies the most optimized selection.
type WasteMetric uint64

// SelectionOutput is the result of a selection attempt.
type SelectionOutput struct {
	// SelectedInputs holds the indices of the selected candidates in the
	// list passed to the selector. Indices are unique, their order carries
	// no meaning unless the selector states otherwise.
	SelectedInputs []int
	// Waste is the waste metric of the selection.
	Waste WasteMetric
}
