// Package lexicon is a dependency-free emotion classifier that scores text
// against keyword lists.
package lexicon

import (
	"context"
	"strings"
	"unicode"

	"github.com/Gorgooo61/AI-character/pkg/emotion"
)

// defaultLexicon maps each label to cue words. Matching is on whole,
// lowercased words.
var defaultLexicon = map[string][]string{
	emotion.Anger:    {"angry", "furious", "mad", "annoyed", "annoying", "hate", "rage", "irritated", "outrageous"},
	emotion.Disgust:  {"disgusting", "gross", "yuck", "ew", "eww", "nasty", "revolting", "awful"},
	emotion.Fear:     {"afraid", "scared", "terrified", "fear", "frightening", "worried", "nervous", "anxious", "creepy"},
	emotion.Joy:      {"happy", "glad", "great", "love", "wonderful", "awesome", "yay", "delighted", "fun", "excited", "lovely", "haha"},
	emotion.Sadness:  {"sad", "sorry", "unhappy", "miss", "lonely", "cry", "depressed", "unfortunately", "heartbroken"},
	emotion.Surprise: {"wow", "whoa", "surprised", "unexpected", "really", "omg", "amazing", "unbelievable", "incredible"},
}

// Classifier counts cue words per label. Ties and texts without cues are
// neutral.
type Classifier struct {
	words map[string]string
}

// New builds a Classifier. extra adds cue words per label on top of the
// built-in lexicon.
func New(extra map[string][]string) *Classifier {
	c := &Classifier{words: make(map[string]string)}
	for label, cues := range defaultLexicon {
		c.add(label, cues)
	}
	for label, cues := range extra {
		c.add(emotion.Normalize(label), cues)
	}
	return c
}

func (c *Classifier) add(label string, cues []string) {
	for _, w := range cues {
		c.words[strings.ToLower(w)] = label
	}
}

// PredictLabel never fails.
func (c *Classifier) PredictLabel(_ context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return emotion.Neutral, nil
	}

	scores := make(map[string]int)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	}) {
		if label, ok := c.words[w]; ok {
			scores[label]++
		}
	}
	if strings.Count(text, "!") >= 2 && scores[emotion.Surprise] == 0 && scores[emotion.Joy] == 0 {
		scores[emotion.Surprise]++
	}

	best, bestScore, tie := emotion.Neutral, 0, false
	for _, label := range emotion.Labels() {
		switch s := scores[label]; {
		case s > bestScore:
			best, bestScore, tie = label, s, false
		case s == bestScore && s > 0:
			tie = true
		}
	}
	if tie {
		return emotion.Neutral, nil
	}
	return best, nil
}

var _ emotion.Classifier = (*Classifier)(nil)
