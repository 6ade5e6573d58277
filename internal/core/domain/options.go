package domain

// ExcessStrategy is the policy for disposing of the value collected beyond
// the target: bump the fee, add to the recipient, or create a change output.
type ExcessStrategy int

const (
	ExcessToFee ExcessStrategy = iota
	ExcessToRecipient
	ExcessToChange
)

func (s ExcessStrategy) String() string {
	switch s {
	case ExcessToFee:
		return "fee"
	case ExcessToRecipient:
		return "recipient"
	case ExcessToChange:
		return "change"
	default:
		return "unknown"
	}
}

// CoinSelectionOptions guides a single selection call. The options are
// read-only for the duration of the call.
type CoinSelectionOptions struct {
	// TargetValue is the value to be covered by the selection.
	TargetValue uint64

	// TargetFeeRate is the feerate to achieve, in currency units per weight
	// unit.
	TargetFeeRate float64
	// LongTermFeeRate is the expected feerate over the wallet's lifetime,
	// used by the waste metric. Nil omits the long-term term.
	LongTermFeeRate *float64
	// MinAbsoluteFee is the minimum absolute fee, ie. needed for RBF.
	MinAbsoluteFee uint64

	// BaseWeight is the weight of the transaction template, including fixed
	// fields and outputs, excluding the selected inputs.
	BaseWeight uint32
	// ChangeWeight is the additional weight of including a change output.
	ChangeWeight uint32
	// ChangeCost is the fee to create the change output now plus the fee to
	// spend it in the future.
	ChangeCost uint64

	// CostPerInput is the estimated cost of spending an input.
	CostPerInput uint64
	// CostPerOutput is the estimated cost of creating an output.
	CostPerOutput uint64

	// MinChangeValue is the minimum value allowed for a change output.
	MinChangeValue uint64

	// ExcessStrategy decides what to do with the excess value beyond target
	// and fee.
	ExcessStrategy ExcessStrategy
}
