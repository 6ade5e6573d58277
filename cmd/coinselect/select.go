package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vulpemventures/go-coinselect/internal/config"
	"github.com/vulpemventures/go-coinselect/internal/core/application"
	"github.com/vulpemventures/go-coinselect/internal/core/domain"
	"github.com/vulpemventures/go-coinselect/internal/core/ports"
	branchandbound_selector "github.com/vulpemventures/go-coinselect/internal/infrastructure/coin-selector/branch-and-bound"
	fifo_selector "github.com/vulpemventures/go-coinselect/internal/infrastructure/coin-selector/fifo"
	knapsack_selector "github.com/vulpemventures/go-coinselect/internal/infrastructure/coin-selector/knapsack"
	lowestlarger_selector "github.com/vulpemventures/go-coinselect/internal/infrastructure/coin-selector/lowest-larger"
	srd_selector "github.com/vulpemventures/go-coinselect/internal/infrastructure/coin-selector/single-random-draw"
)

var (
	utxosPath         string
	targetAmount      uint64
	satsPerVByte      string
	longTermFeeRate   string
	minAbsoluteFee    uint64
	changeCost        uint64
	costPerInput      uint64
	costPerOutput     uint64
	changeWeight      uint32
	minChangeValue    uint64
	excessStrategy    string
	selectionStrategy string

	selectCmd = &cobra.Command{
		Use:   "select",
		Short: "select utxos covering a target amount",
		Long: "this command runs the coin selection strategies over the given " +
			"utxos and prints the selected ones along with their waste metric",
		RunE: selectCoins,
	}
)

func init() {
	selectCmd.Flags().StringVar(
		&utxosPath, "utxos", "", "path to a listunspent JSON file",
	)
	selectCmd.Flags().Uint64Var(
		&targetAmount, "target", 0, "target amount to cover in sats",
	)
	selectCmd.Flags().StringVar(
		&satsPerVByte, "feerate", "1", "target feerate in sats/vByte",
	)
	selectCmd.Flags().StringVar(
		&longTermFeeRate, "long-term-feerate", "",
		"long-term feerate in sats/vByte, used by the waste metric",
	)
	selectCmd.Flags().Uint64Var(
		&minAbsoluteFee, "min-absolute-fee", 0, "minimum absolute fee in sats",
	)
	selectCmd.Flags().Uint64Var(
		&changeCost, "change-cost", 0,
		"cost of creating and later spending a change output in sats",
	)
	selectCmd.Flags().Uint64Var(
		&costPerInput, "cost-per-input", 0, "estimated cost of spending an input",
	)
	selectCmd.Flags().Uint64Var(
		&costPerOutput, "cost-per-output", 0, "estimated cost of creating an output",
	)
	selectCmd.Flags().Uint32Var(
		&changeWeight, "change-weight", 0, "additional weight of a change output",
	)
	selectCmd.Flags().Uint64Var(
		&minChangeValue, "min-change",
		uint64(config.GetInt(config.MinChangeValueKey)),
		"minimum value allowed for a change output in sats",
	)
	selectCmd.Flags().StringVar(
		&excessStrategy, "excess-strategy", "change",
		"policy for the excess value, either fee, recipient or change",
	)
	selectCmd.Flags().StringVar(
		&selectionStrategy, "strategy", "all",
		"strategy to run, either all, branch-and-bound, knapsack, fifo, "+
			"lowest-larger or single-random-draw",
	)
	selectCmd.MarkFlagRequired("utxos")
	selectCmd.MarkFlagRequired("target")
}

func selectCoins(_ *cobra.Command, _ []string) error {
	utxos, err := parseUtxosFile(utxosPath)
	if err != nil {
		return err
	}
	candidates, err := toOutputGroups(utxos)
	if err != nil {
		return err
	}

	opts, err := makeOptions()
	if err != nil {
		return err
	}

	result, err := runSelection(candidates, opts)
	if err != nil {
		return err
	}

	return printResult(utxos, result)
}

func makeOptions() (domain.CoinSelectionOptions, error) {
	feeRate, err := parseFeeRate(satsPerVByte)
	if err != nil {
		return domain.CoinSelectionOptions{}, fmt.Errorf("invalid feerate: %s", err)
	}

	var longTermRate *float64
	if longTermFeeRate != "" {
		rate, err := parseFeeRate(longTermFeeRate)
		if err != nil {
			return domain.CoinSelectionOptions{}, fmt.Errorf(
				"invalid long-term feerate: %s", err,
			)
		}
		longTermRate = &rate
	}

	strategy, err := parseExcessStrategy(excessStrategy)
	if err != nil {
		return domain.CoinSelectionOptions{}, err
	}

	return domain.CoinSelectionOptions{
		TargetValue:     targetAmount,
		TargetFeeRate:   feeRate,
		LongTermFeeRate: longTermRate,
		MinAbsoluteFee:  minAbsoluteFee,
		BaseWeight:      baseWeight(),
		ChangeWeight:    changeWeight,
		ChangeCost:      changeCost,
		CostPerInput:    costPerInput,
		CostPerOutput:   costPerOutput,
		MinChangeValue:  minChangeValue,
		ExcessStrategy:  strategy,
	}, nil
}

func runSelection(
	candidates []domain.OutputGroup, opts domain.CoinSelectionOptions,
) (*domain.SelectionOutput, error) {
	if selectionStrategy == "all" {
		svc := application.NewCustomSelectorService(map[string]ports.CoinSelector{
			"branch-and-bound": branchandbound_selector.NewBranchAndBoundCoinSelectorWithTries(
				uint32(config.GetInt(config.BnbMaxTriesKey)),
			),
			"knapsack": knapsack_selector.NewKnapsackCoinSelectorWithTrials(
				config.GetInt(config.KnapsackTrialsKey),
			),
			"fifo":               fifo_selector.NewFifoCoinSelector(),
			"lowest-larger":      lowestlarger_selector.NewLowestLargerCoinSelector(),
			"single-random-draw": srd_selector.NewSingleRandomDrawCoinSelector(),
		})
		return svc.Select(candidates, opts)
	}

	sel, err := selectorByName(selectionStrategy)
	if err != nil {
		return nil, err
	}
	return sel.Select(candidates, opts)
}

func selectorByName(name string) (ports.CoinSelector, error) {
	switch name {
	case "branch-and-bound":
		return branchandbound_selector.NewBranchAndBoundCoinSelectorWithTries(
			uint32(config.GetInt(config.BnbMaxTriesKey)),
		), nil
	case "knapsack":
		return knapsack_selector.NewKnapsackCoinSelectorWithTrials(
			config.GetInt(config.KnapsackTrialsKey),
		), nil
	case "fifo":
		return fifo_selector.NewFifoCoinSelector(), nil
	case "lowest-larger":
		return lowestlarger_selector.NewLowestLargerCoinSelector(), nil
	case "single-random-draw":
		return srd_selector.NewSingleRandomDrawCoinSelector(), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

func parseExcessStrategy(strategy string) (domain.ExcessStrategy, error) {
	switch strategy {
	case "fee":
		return domain.ExcessToFee, nil
	case "recipient":
		return domain.ExcessToRecipient, nil
	case "change":
		return domain.ExcessToChange, nil
	default:
		return 0, fmt.Errorf("unknown excess strategy %q", strategy)
	}
}

func printResult(utxos []unspent, result *domain.SelectionOutput) error {
	type selectedUtxo struct {
		Txid   string `json:"txid"`
		Vout   uint32 `json:"vout"`
		Amount uint64 `json:"amount"`
	}
	out := struct {
		SelectedInputs []int          `json:"selectedInputs"`
		Utxos          []selectedUtxo `json:"utxos"`
		Waste          uint64         `json:"waste"`
	}{
		SelectedInputs: result.SelectedInputs,
		Waste:          uint64(result.Waste),
	}
	for _, index := range result.SelectedInputs {
		amount, err := satsAmount(utxos[index].Amount)
		if err != nil {
			return err
		}
		out.Utxos = append(out.Utxos, selectedUtxo{
			Txid:   utxos[index].Txid,
			Vout:   utxos[index].Vout,
			Amount: amount,
		})
	}

	buf, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(buf))
	return nil
}
