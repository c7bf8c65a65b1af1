package utils

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Truncate", func() {
	It("returns short strings unchanged", func() {
		Expect(Truncate("short", 10)).To(Equal("short"))
		Expect(Truncate("12345", 5)).To(Equal("12345"))
	})

	It("cuts long strings and appends an ellipsis", func() {
		Expect(Truncate("this is a long string", 10)).To(Equal("this is a..."))
	})

	It("counts runes rather than bytes", func() {
		Expect(Truncate("こんにちは世界", 5)).To(Equal("こんにちは..."))
		Expect(Truncate("こんにちは", 5)).To(Equal("こんにちは"))
	})

	It("flattens whitespace onto one line", func() {
		Expect(Truncate("  hello\n\tthere  ", 20)).To(Equal("hello there"))
	})

	It("treats a negative limit as zero", func() {
		Expect(Truncate("abc", -1)).To(Equal("..."))
	})
})
