package runcmder

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/Gorgooo61/AI-character/pkg/capture"
	"github.com/Gorgooo61/AI-character/pkg/session"
)

func newTestCmd(headless bool) (*runCommander, *cobra.Command) {
	cmder := newCommander(headless)
	return cmder, cmder.command("test", "", "")
}

// preRun parses args into cmd and runs its PreRunE with --config-dir set.
func preRun(cmd *cobra.Command, dir string, args ...string) error {
	cmd.Flags().String("config-dir", dir, "")
	Expect(cmd.ParseFlags(args)).To(Succeed())
	return cmd.PreRunE(cmd, nil)
}

var _ = Describe("NewRunCmd", func() {
	It("registers the character flags", func() {
		cmd := NewRunCmd()
		Expect(cmd.Use).To(Equal("run"))
		for _, name := range []string{"name", "capture", "model", "provider", "lore", "avatar", "api", "api-listen", "log-file"} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), name)
		}
	})

	It("rejects positional arguments", func() {
		cmd := NewRunCmd()
		Expect(cmd.Args(cmd, []string{"extra"})).To(HaveOccurred())
	})
})

var _ = Describe("NewServeCmd", func() {
	It("has no capture or api toggle", func() {
		cmd := NewServeCmd()
		Expect(cmd.Use).To(Equal("serve"))
		Expect(cmd.Flags().Lookup("capture")).To(BeNil())
		Expect(cmd.Flags().Lookup("api")).To(BeNil())
		Expect(cmd.Flags().Lookup("api-listen")).NotTo(BeNil())
	})
})

var _ = Describe("config resolution", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("applies flags over config.toml", func() {
		Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[agent]
name = "mika"

[generation]
model = "from-file"
`), 0o600)).To(Succeed())

		cmder, cmd := newTestCmd(false)
		Expect(preRun(cmd, dir, "--model", "from-flag", "--capture", "api")).To(Succeed())

		Expect(cmder.cfg.Agent.Name).To(Equal("mika"))
		Expect(cmder.cfg.Generation.Model).To(Equal("from-flag"))
		Expect(cmder.cfg.Capture.Mode).To(Equal(capture.ModeAPI))
		Expect(cmder.configDir).To(Equal(dir))
	})

	It("forces API capture when headless", func() {
		Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[capture]
mode = "console"

[api]
enabled = false
`), 0o600)).To(Succeed())

		cmder, cmd := newTestCmd(true)
		Expect(preRun(cmd, dir)).To(Succeed())

		Expect(cmder.cfg.Capture.Mode).To(Equal(capture.ModeAPI))
		Expect(cmder.cfg.API.Enabled).To(BeTrue())
	})

	It("reports a malformed config file", func() {
		Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[agent"), 0o600)).To(Succeed())
		cmd := NewRunCmd()
		Expect(preRun(cmd, dir)).To(MatchError(ContainSubstring("loading config")))
	})
})

var _ = Describe("run", func() {
	It("refuses to start while another character holds the directory", func() {
		dir := GinkgoT().TempDir()
		manager, err := session.NewManager(dir)
		Expect(err).NotTo(HaveOccurred())
		lock, err := manager.Acquire()
		Expect(err).NotTo(HaveOccurred())
		defer lock.Release()

		cmder, cmd := newTestCmd(false)
		Expect(preRun(cmd, dir)).To(Succeed())

		err = cmder.run(context.Background())
		Expect(err).To(MatchError(session.ErrAlreadyRunning))
	})
})

var _ = DescribeTable("apiURL",
	func(listen, want string) {
		Expect(apiURL(listen)).To(Equal(want))
	},
	Entry("port only", ":8081", "http://localhost:8081"),
	Entry("wildcard host", "0.0.0.0:9000", "http://localhost:9000"),
	Entry("explicit host", "127.0.0.1:8081", "http://127.0.0.1:8081"),
	Entry("ipv6 wildcard", "[::]:8081", "http://localhost:8081"),
)
