package rules

import (
	"github.com/convlint/convlint/internal/classify"
	"github.com/convlint/convlint/internal/config"
	"github.com/convlint/convlint/internal/jsast"
)

// newClassifier builds a classifier with the configured vocabulary applied
// over the platform defaults.
func newClassifier(file *jsast.File, cfg config.Config) *classify.Classifier {
	cls := classify.New(file)
	if cfg.ConversationName != "" {
		cls.Conversation = cfg.ConversationName
	}
	if len(cfg.HandlerMethods) > 0 {
		methods := make(map[string]bool, len(cfg.HandlerMethods))
		for _, m := range cfg.HandlerMethods {
			methods[m] = true
		}
		cls.HandlerMethods = methods
	}
	return cls
}
