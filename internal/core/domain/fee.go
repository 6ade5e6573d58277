package domain

import "math"

const (
	// DefaultMaxFeeRate is the default upper bound above which a feerate is
	// rejected as abnormal.
	DefaultMaxFeeRate float64 = 1000

	// BtcBaseWeight is the fixed weight of a Bitcoin transaction template
	// excluding inputs and outputs: version (16 WU), segwit marker (2 WU),
	// input and output counts (4 WU each), witness count (1 WU) and
	// locktime (16 WU).
	BtcBaseWeight uint32 = 43
)

// MaxFeeRate is the process-wide feerate upper bound. It is a policy choice
// rather than a law of the domain and may be overridden at startup, before
// any selection runs.
var MaxFeeRate = DefaultMaxFeeRate

// CalcFee returns the fee for the given weight at the given feerate, rounded
// up. It fails for non-positive or abnormally high feerates.
func CalcFee(weight uint64, feeRate float64) (uint64, error) {
	if feeRate <= 0 {
		return 0, ErrNonPositiveFeeRate
	}
	if feeRate > MaxFeeRate {
		return 0, ErrAbnormallyHighFeeRate
	}
	return uint64(math.Ceil(float64(weight) * feeRate)), nil
}

// EffectiveValue returns the value of the group net of the fee required to
// spend it at the given feerate, floored at zero.
func EffectiveValue(group OutputGroup, feeRate float64) (uint64, error) {
	fee, err := CalcFee(uint64(group.Weight), feeRate)
	if err != nil {
		return 0, err
	}
	if fee >= group.Value {
		return 0, nil
	}
	return group.Value - fee, nil
}

// CalcWaste scores a completed selection:
//   - if a long-term feerate is known, the difference between spending the
//     accumulated weight now and at the long-term rate is added, this term
//     subtracts when current fees are cheaper than the long-term estimate;
//   - without a change output any excess beyond target and fee is wasted;
//   - with a change output the flat change cost is wasted instead.
//
// The result is floored at zero.
func CalcWaste(
	opts CoinSelectionOptions,
	accumulatedValue, accumulatedWeight, estimatedFee uint64,
) uint64 {
	var waste int64
	if opts.LongTermFeeRate != nil {
		waste = int64(math.Ceil(
			float64(accumulatedWeight) * (opts.TargetFeeRate - *opts.LongTermFeeRate),
		))
	}

	if opts.ExcessStrategy != ExcessToChange {
		excess := saturatingSub(accumulatedValue, opts.TargetValue)
		excess = saturatingSub(excess, estimatedFee)
		waste += int64(excess)
	} else {
		waste += int64(opts.ChangeCost)
	}

	if waste < 0 {
		return 0
	}
	return uint64(waste)
}

func saturatingSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}
