package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type IgnoreRule struct {
	Rule   string `mapstructure:"rule" yaml:"rule" json:"rule"`
	Path   string `mapstructure:"path" yaml:"path" json:"path"`
	Reason string `mapstructure:"reason" yaml:"reason" json:"reason"`
}

type ExternalTools struct {
	ESLint bool `mapstructure:"eslint" yaml:"eslint" json:"eslint"`
}

type Config struct {
	SeverityThreshold string `mapstructure:"severityThreshold" yaml:"severityThreshold" json:"severityThreshold"`
	TimeBudgetMs      int    `mapstructure:"timeBudgetMs" yaml:"timeBudgetMs" json:"timeBudgetMs"`

	// MaxSimpleResponses is the per-turn cap on simple responses the
	// platform renders; anything guaranteed past it is dropped at runtime.
	MaxSimpleResponses int `mapstructure:"maxSimpleResponses" yaml:"maxSimpleResponses" json:"maxSimpleResponses"`
	// ConversationName is the identifier handlers receive the conversation
	// object as.
	ConversationName string `mapstructure:"conversationName" yaml:"conversationName" json:"conversationName"`
	// HandlerMethods are the app methods that register intent handlers.
	HandlerMethods []string `mapstructure:"handlerMethods" yaml:"handlerMethods" json:"handlerMethods"`

	Rules         []string      `mapstructure:"rules" yaml:"rules" json:"rules"`
	Ignore        []IgnoreRule  `mapstructure:"ignore" yaml:"ignore" json:"ignore"`
	ExternalTools ExternalTools `mapstructure:"externalTools" yaml:"externalTools" json:"externalTools"`
}

func Default() Config {
	return Config{
		SeverityThreshold:  "low",
		TimeBudgetMs:       4500,
		MaxSimpleResponses: 2,
		ConversationName:   "conv",
		HandlerMethods:     []string{"intent", "handle"},
	}
}

// candidates are the config file names searched for, in order.
var candidates = []string{".convlint.yaml", ".convlint.yml", ".convlint.json"}

// Load searches upwards from startDir for a config file and unmarshals it
// over the defaults. Returns the effective config, the path of the file used
// ("" when none was found), and any read error.
func Load(startDir string) (Config, string, error) {
	cfg := Default()
	dir, err := filepath.Abs(startDir)
	if err != nil {
		dir = startDir
	}
	if fi, err := os.Stat(dir); err == nil && !fi.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		for _, name := range candidates {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			v := viper.New()
			v.SetConfigFile(candidate)
			if err := v.ReadInConfig(); err != nil {
				return cfg, candidate, err
			}
			if err := v.Unmarshal(&cfg); err != nil {
				return cfg, candidate, err
			}
			return cfg, candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached root
			break
		}
		dir = parent
	}
	return cfg, "", nil
}
