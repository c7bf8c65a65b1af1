// Package emotionutils builds the configured emotion.Classifier.
package emotionutils

import (
	"fmt"

	"github.com/Gorgooo61/AI-character/pkg/emotion"
	"github.com/Gorgooo61/AI-character/pkg/emotion/lexicon"
	"github.com/Gorgooo61/AI-character/pkg/emotion/llm"
	"github.com/Gorgooo61/AI-character/pkg/generation"
)

type NewClassifierOpts struct {
	ProviderType string

	// Generator backs the "llm" provider.
	Generator generation.Generator

	// Lexicon adds cue words to the "lexicon" provider.
	Lexicon map[string][]string
}

func NewClassifier(o *NewClassifierOpts) (emotion.Classifier, error) {
	switch o.ProviderType {
	case "lexicon":
		return lexicon.New(o.Lexicon), nil
	case "llm":
		if o.Generator == nil {
			return nil, fmt.Errorf("emotion provider llm requires a generator")
		}
		return llm.New(o.Generator), nil
	default:
		return nil, fmt.Errorf("unsupported emotion provider: %s", o.ProviderType)
	}
}
