package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/shopspring/decimal"
	"github.com/vulpemventures/go-coinselect/internal/core/domain"
)

const (
	// Estimated spend weight by script type, txin fields plus witness or
	// scriptSig, in weight units.
	p2wpkhInputWeight  = 272
	p2trInputWeight    = 230
	p2pkhInputWeight   = 592
	p2shInputWeight    = 560
	defaultInputWeight = 592

	// Weight of a p2wpkh recipient output.
	recipientOutputWeight = 124

	wuPerVByte = 4
)

// unspent mirrors an entry of the listunspent JSON format.
type unspent struct {
	Txid          string  `json:"txid"`
	Vout          uint32  `json:"vout"`
	Address       string  `json:"address,omitempty"`
	ScriptPubKey  string  `json:"scriptPubKey"`
	Amount        float64 `json:"amount"`
	Confirmations uint32  `json:"confirmations"`
	Spendable     bool    `json:"spendable"`
	Solvable      bool    `json:"solvable"`
	Safe          bool    `json:"safe"`
}

func parseUtxosFile(path string) ([]unspent, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error while reading utxos file: %s", err)
	}
	utxos := make([]unspent, 0)
	if err := json.Unmarshal(buf, &utxos); err != nil {
		return nil, fmt.Errorf("invalid utxos file format: %s", err)
	}
	if len(utxos) == 0 {
		return nil, fmt.Errorf("utxos file must contain at least one utxo")
	}
	return utxos, nil
}

// toOutputGroups maps the spendable utxos to selection candidates, deriving
// the spend weight from the script type and the relative age from the
// number of confirmations.
func toOutputGroups(utxos []unspent) ([]domain.OutputGroup, error) {
	candidates := make([]domain.OutputGroup, 0, len(utxos))
	for _, utxo := range utxos {
		if !utxo.Spendable {
			continue
		}
		if _, err := chainhash.NewHashFromStr(utxo.Txid); err != nil {
			return nil, fmt.Errorf("invalid txid %q: %s", utxo.Txid, err)
		}

		value, err := satsAmount(utxo.Amount)
		if err != nil {
			return nil, err
		}

		script, err := hex.DecodeString(utxo.ScriptPubKey)
		if err != nil {
			return nil, fmt.Errorf(
				"invalid script for utxo %s:%d: %s", utxo.Txid, utxo.Vout, err,
			)
		}

		group := domain.OutputGroup{
			Value:      value,
			Weight:     inputWeight(script),
			InputCount: 1,
		}
		if utxo.Confirmations > 0 {
			group = group.WithSequence(math.MaxUint32 - utxo.Confirmations)
		}
		candidates = append(candidates, group)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no spendable utxos found")
	}
	return candidates, nil
}

func inputWeight(script []byte) uint32 {
	switch txscript.GetScriptClass(script) {
	case txscript.WitnessV0PubKeyHashTy:
		return p2wpkhInputWeight
	case txscript.WitnessV1TaprootTy:
		return p2trInputWeight
	case txscript.PubKeyHashTy:
		return p2pkhInputWeight
	case txscript.ScriptHashTy, txscript.WitnessV0ScriptHashTy:
		return p2shInputWeight
	default:
		return defaultInputWeight
	}
}

func satsAmount(btcAmount float64) (uint64, error) {
	amount, err := btcutil.NewAmount(btcAmount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %f: %s", btcAmount, err)
	}
	if amount < 0 {
		return 0, fmt.Errorf("amount must not be negative")
	}
	return uint64(amount), nil
}

// parseFeeRate converts a sats/vByte string to sats per weight unit.
func parseFeeRate(feeRate string) (float64, error) {
	rate, err := decimal.NewFromString(feeRate)
	if err != nil {
		return 0, err
	}
	satsPerWU, _ := rate.Div(decimal.NewFromInt(wuPerVByte)).Float64()
	return satsPerWU, nil
}

// baseWeight returns the weight of the transaction template: the fixed
// fields plus one recipient output.
func baseWeight() uint32 {
	return domain.BtcBaseWeight + recipientOutputWeight
}
