package ports

import "github.com/vulpemventures/go-coinselect/internal/core/domain"

// CoinSelector is the abstraction for any kind of service intended to return
// a subset of the given candidates covering the target amount of the options,
// based on a specific strategy.
type CoinSelector interface {
	// Select implements a certain coin selection strategy. It must treat
	// candidates and options as read-only and reference candidates only by
	// their index in the given list.
	Select(
		candidates []domain.OutputGroup, opts domain.CoinSelectionOptions,
	) (*domain.SelectionOutput, error)
}
