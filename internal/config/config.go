package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

const (
	// LogLevelKey is the key to customize the log level to catch more
	// specific or more high level logs.
	LogLevelKey = "LOG_LEVEL"
	// MaxFeeRateKey is the key to customize the upper bound above which a
	// target feerate is rejected as abnormal. The default (0, 1000] range
	// is a policy choice, not a law of the domain.
	MaxFeeRateKey = "MAX_FEE_RATE"
	// BnbMaxTriesKey is the key to customize the try budget of the branch
	// and bound strategy.
	BnbMaxTriesKey = "BNB_MAX_TRIES"
	// KnapsackTrialsKey is the key to customize the number of randomized
	// trials of the knapsack strategy.
	KnapsackTrialsKey = "KNAPSACK_TRIALS"
	// MinChangeValueKey is the key to customize the default dust floor for
	// a change output.
	MinChangeValueKey = "MIN_CHANGE_VALUE"
)

var (
	vip *viper.Viper

	defaultLogLevel       = 4
	defaultMaxFeeRate     = float64(1000)
	defaultBnbMaxTries    = 1_000_000
	defaultKnapsackTrials = 1000
	defaultMinChangeValue = 500
)

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("COINSELECT")
	vip.AutomaticEnv()

	vip.SetDefault(LogLevelKey, defaultLogLevel)
	vip.SetDefault(MaxFeeRateKey, defaultMaxFeeRate)
	vip.SetDefault(BnbMaxTriesKey, defaultBnbMaxTries)
	vip.SetDefault(KnapsackTrialsKey, defaultKnapsackTrials)
	vip.SetDefault(MinChangeValueKey, defaultMinChangeValue)

	if err := validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}
}

func validate() error {
	if maxFeeRate := GetFloat(MaxFeeRateKey); maxFeeRate <= 0 {
		return fmt.Errorf("max fee rate must be a positive number")
	}
	if bnbMaxTries := GetInt(BnbMaxTriesKey); bnbMaxTries <= 0 {
		return fmt.Errorf("bnb try budget must be a positive number")
	}
	if knapsackTrials := GetInt(KnapsackTrialsKey); knapsackTrials <= 0 {
		return fmt.Errorf("knapsack trial count must be a positive number")
	}
	return nil
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetFloat(key string) float64 {
	return vip.GetFloat64(key)
}

func GetString(key string) string {
	return vip.GetString(key)
}
