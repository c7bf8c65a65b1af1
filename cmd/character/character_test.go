package charactercmder_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	charactercmder "github.com/Gorgooo61/AI-character/cmd/character"
)

var _ = Describe("Character root command", func() {
	It("registers every subcommand", func() {
		cmd := charactercmder.NewCharacterCmd()
		names := []string{}
		for _, c := range cmd.Commands() {
			names = append(names, c.Name())
		}
		Expect(names).To(ContainElements(
			"init", "run", "serve", "say", "status", "hotkey", "switch",
			"memory", "lore", "context", "turns", "config", "version",
		))
	})

	It("declares the global flags", func() {
		cmd := charactercmder.NewCharacterCmd()
		Expect(cmd.PersistentFlags().Lookup("debug")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("debug").Shorthand).To(Equal("d"))
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})

	It("passes --config-dir down to subcommands", func() {
		dir := GinkgoT().TempDir()
		out := &bytes.Buffer{}

		cmd := charactercmder.NewCharacterCmd()
		cmd.SetOut(out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"status", "--config-dir", dir})
		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("No character is running."))
	})

	It("fails on an unknown command", func() {
		cmd := charactercmder.NewCharacterCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"dance"})
		Expect(cmd.Execute()).To(HaveOccurred())
	})
})
