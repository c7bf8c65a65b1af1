package emotion_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Gorgooo61/AI-character/pkg/emotion"
)

var _ = Describe("labels", func() {
	It("should expose the seven labels", func() {
		Expect(emotion.Labels()).To(Equal([]string{
			"anger", "disgust", "fear", "joy", "neutral", "sadness", "surprise",
		}))
	})

	It("should normalize case, whitespace and empty labels", func() {
		Expect(emotion.Normalize(" JOY ")).To(Equal("joy"))
		Expect(emotion.Normalize("")).To(Equal(emotion.Neutral))
	})

	It("should recognise known labels only", func() {
		Expect(emotion.Known("fear")).To(BeTrue())
		Expect(emotion.Known("boredom")).To(BeFalse())
	})
})
