package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Gorgooo61/AI-character/pkg/config"
)

var _ = Describe("InitViper", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "viper-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("returns viper with defaults when no config file exists", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		defaults := config.NewDefaultConfig()
		Expect(v.GetString("capture.mode")).To(Equal(defaults.Capture.Mode))
		Expect(v.GetString("generation.model")).To(Equal(defaults.Generation.Model))
		Expect(v.GetBool("agent.autonomous")).To(BeTrue())
		Expect(v.GetDuration("agent.idle_silence")).To(Equal(30 * time.Second))
	})

	It("reads config file values over defaults", func() {
		data := `[generation]
provider = "anthropic"
`
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
		Expect(err).NotTo(HaveOccurred())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(v.GetString("generation.provider")).To(Equal("anthropic"))
		// Unset fields should still get defaults
		defaults := config.NewDefaultConfig()
		Expect(v.GetString("api.listen")).To(Equal(defaults.API.Listen))
	})

	It("respects environment variables with CHARACTER_ prefix", func() {
		os.Setenv("CHARACTER_CAPTURE_MODE", "api")
		defer os.Unsetenv("CHARACTER_CAPTURE_MODE")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(v.GetString("capture.mode")).To(Equal("api"))
	})

	It("env vars take precedence over config file values", func() {
		data := `[generation]
model = "llama3.2"
`
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
		Expect(err).NotTo(HaveOccurred())

		os.Setenv("CHARACTER_GENERATION_MODEL", "qwen2.5")
		defer os.Unsetenv("CHARACTER_GENERATION_MODEL")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(v.GetString("generation.model")).To(Equal("qwen2.5"))
	})
})

var _ = Describe("FromViper", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "fromviper-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("returns the defaults when nothing is configured", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.FromViper(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.NewDefaultConfig()))
	})

	It("merges file, environment and maps", func() {
		data := `[agent]
speech_patience = "4s"

[animation.hotkeys]
Joy = "Smile"

[emotion.lexicon]
joy = ["yay", "woo"]

[event_stream]
brokers = ["k1:9092", "k2:9092"]
`
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
		Expect(err).NotTo(HaveOccurred())

		os.Setenv("CHARACTER_AGENT_AUTONOMOUS", "false")
		defer os.Unsetenv("CHARACTER_AGENT_AUTONOMOUS")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.FromViper(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Agent.SpeechPatience.Duration).To(Equal(4 * time.Second))
		Expect(cfg.Agent.Autonomous).To(BeFalse())
		// viper lowercases map keys
		Expect(cfg.Animation.Hotkeys).To(HaveKeyWithValue("joy", "Smile"))
		Expect(cfg.Emotion.Lexicon).To(HaveKeyWithValue("joy", []string{"yay", "woo"}))
		Expect(cfg.EventStream.Brokers).To(Equal([]string{"k1:9092", "k2:9092"}))
	})

	It("splits brokers given as an environment variable", func() {
		os.Setenv("CHARACTER_EVENT_STREAM_BROKERS", "k1:9092,k2:9092")
		defer os.Unsetenv("CHARACTER_EVENT_STREAM_BROKERS")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.FromViper(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.EventStream.Brokers).To(Equal([]string{"k1:9092", "k2:9092"}))
	})

	It("reports invalid values with their key", func() {
		os.Setenv("CHARACTER_AGENT_MAX_TOKENS", "lots")
		defer os.Unsetenv("CHARACTER_AGENT_MAX_TOKENS")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		_, err = config.FromViper(v)
		Expect(err).To(MatchError(ContainSubstring("agent.max_tokens")))
	})
})
