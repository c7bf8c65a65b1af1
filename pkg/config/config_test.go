package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Gorgooo61/AI-character/pkg/config"
)

var _ = Describe("Configer config", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	writeConfig := func(data string) {
		err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
		Expect(err).NotTo(HaveOccurred())
	}

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.NewDefaultConfig()))
		})

		It("loads a valid config file over the defaults", func() {
			writeConfig(`version = 0

[agent]
name = "Mira"
idle_silence = "45s"

[generation]
provider = "anthropic"
model = "claude-haiku-4-5"

[animation]
driver = "vtubestudio"

[animation.hotkeys]
joy = "Smile"

[event_stream]
provider = "kafka"
brokers = ["kafka-1:9092", "kafka-2:9092"]
`)

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Agent.Name).To(Equal("Mira"))
			Expect(cfg.Agent.IdleSilence.Duration).To(Equal(45 * time.Second))
			Expect(cfg.Generation.Provider).To(Equal("anthropic"))
			Expect(cfg.Generation.Model).To(Equal("claude-haiku-4-5"))
			Expect(cfg.Animation.Driver).To(Equal("vtubestudio"))
			Expect(cfg.Animation.Hotkeys).To(HaveKeyWithValue("joy", "Smile"))
			Expect(cfg.EventStream.Brokers).To(Equal([]string{"kafka-1:9092", "kafka-2:9092"}))
		})

		It("keeps defaults for fields the file does not mention", func() {
			writeConfig(`[capture]
mode = "api"
`)

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())

			defaults := config.NewDefaultConfig()
			Expect(cfg.Capture.Mode).To(Equal("api"))
			Expect(cfg.Agent.Autonomous).To(BeTrue())
			Expect(cfg.Animation.Enabled).To(BeTrue())
			Expect(cfg.Memory.Extraction).To(BeTrue())
			Expect(cfg.Agent.InputTimeout).To(Equal(defaults.Agent.InputTimeout))
			Expect(cfg.Embedding).To(Equal(defaults.Embedding))
		})

		It("honours explicitly disabled booleans", func() {
			writeConfig(`[agent]
autonomous = false

[animation]
enabled = false
`)

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Agent.Autonomous).To(BeFalse())
			Expect(cfg.Animation.Enabled).To(BeFalse())
		})

		It("returns error for malformed TOML", func() {
			writeConfig(`[agent
name = `)

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("parsing config TOML"))
		})

		It("returns error for an invalid duration", func() {
			writeConfig(`[agent]
idle_silence = "soon"
`)

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(HaveOccurred())
		})

		It("returns error for unsupported config version", func() {
			writeConfig(`version = 99
`)

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unsupported config version 99"))
		})
	})

	Describe("SaveConfig", func() {
		It("persists config to disk", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.NewDefaultConfig()
			cfg.Agent.Name = "Mira"
			cfg.Playback.WordDelay = config.D(150 * time.Millisecond)
			Expect(c.SaveConfig(cfg)).To(Succeed())

			data, err := os.ReadFile(filepath.Join(tmpDir, "config.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`name = "Mira"`))
			Expect(string(data)).To(ContainSubstring(`word_delay = "150ms"`))
		})

		It("returns error for nil config", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SaveConfig(nil)).To(MatchError(ContainSubstring("nil config")))
		})
	})

	Describe("SetConfigValue", func() {
		var c *config.Configer

		BeforeEach(func() {
			var err error
			c, err = config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
		})

		It("sets a string config key", func() {
			Expect(c.SetConfigValue("generation.model", "qwen2.5")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Generation.Model).To(Equal("qwen2.5"))
		})

		It("sets typed config keys", func() {
			Expect(c.SetConfigValue("agent.autonomous", "false")).To(Succeed())
			Expect(c.SetConfigValue("agent.idle_silence", "1m")).To(Succeed())
			Expect(c.SetConfigValue("agent.max_tokens", "200")).To(Succeed())
			Expect(c.SetConfigValue("memory.lore_threshold", "72.5")).To(Succeed())
			Expect(c.SetConfigValue("embedding.dimensions", "1024")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Agent.Autonomous).To(BeFalse())
			Expect(cfg.Agent.IdleSilence.Duration).To(Equal(time.Minute))
			Expect(cfg.Agent.MaxTokens).To(Equal(200))
			Expect(cfg.Memory.LoreThreshold).To(Equal(72.5))
			Expect(cfg.Embedding.Dimensions).To(Equal(uint(1024)))
		})

		It("splits list keys on commas", func() {
			Expect(c.SetConfigValue("event_stream.brokers", "a:9092, b:9092,")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.EventStream.Brokers).To(Equal([]string{"a:9092", "b:9092"}))
		})

		It("returns error for unknown key", func() {
			err := c.SetConfigValue("voice.pitch", "x")
			Expect(err).To(MatchError(ContainSubstring(`unknown config key: "voice.pitch"`)))
		})

		It("returns error for invalid typed values", func() {
			Expect(c.SetConfigValue("agent.autonomous", "maybe")).To(MatchError(ContainSubstring("agent.autonomous")))
			Expect(c.SetConfigValue("agent.idle_silence", "soon")).To(MatchError(ContainSubstring("agent.idle_silence")))
			Expect(c.SetConfigValue("agent.max_tokens", "many")).To(MatchError(ContainSubstring("agent.max_tokens")))
			Expect(c.SetConfigValue("embedding.dimensions", "-1")).To(MatchError(ContainSubstring("embedding.dimensions")))
		})

		It("preserves existing values when setting a new key", func() {
			Expect(c.SetConfigValue("agent.name", "Mira")).To(Succeed())
			Expect(c.SetConfigValue("capture.mode", "api")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Agent.Name).To(Equal("Mira"))
			Expect(cfg.Capture.Mode).To(Equal("api"))
		})
	})

	Describe("GetConfigValue", func() {
		var c *config.Configer

		BeforeEach(func() {
			var err error
			c, err = config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns default values when no config file exists", func() {
			Expect(c.GetConfigValue("agent.idle_silence")).To(Equal("30s"))
			Expect(c.GetConfigValue("agent.autonomous")).To(Equal("true"))
			Expect(c.GetConfigValue("agent.temperature")).To(Equal("0.7"))
			Expect(c.GetConfigValue("embedding.dimensions")).To(Equal("768"))
		})

		It("returns empty string for key with no default", func() {
			Expect(c.GetConfigValue("storage.postgres_dsn")).To(BeEmpty())
		})

		It("returns error for unknown key", func() {
			_, err := c.GetConfigValue("nope")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("round-trip", func() {
		It("saves and loads config correctly with all fields", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.NewDefaultConfig()
			cfg.Agent.SystemPrompt = "Be brief."
			cfg.Agent.SpeechPatience = config.D(3 * time.Second)
			cfg.Capture.Mode = "api"
			cfg.Generation.APIKey = "secret"
			cfg.Emotion.Lexicon = map[string][]string{"joy": {"yay"}}
			cfg.Playback.Plain = true
			cfg.Animation.Hotkeys = map[string]string{"anger": "Frown"}
			cfg.Animation.TokenPath = "/tmp/token.txt"
			cfg.Memory.LorePath = "/tmp/lore.json"
			cfg.VectorStore.Provider = "qdrant"
			cfg.VectorStore.Port = 6334
			cfg.Storage.Provider = "postgres"
			cfg.Storage.PostgresDSN = "postgres://localhost/character"
			cfg.EventStream.Provider = "kafka"
			cfg.EventStream.Brokers = []string{"localhost:9092"}
			cfg.API.Enabled = false

			Expect(c.SaveConfig(cfg)).To(Succeed())

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(cfg))
		})
	})
})

var _ = Describe("ValidConfigKeys", func() {
	It("returns keys in section order", func() {
		keys := config.ValidConfigKeys()
		Expect(keys[0]).To(Equal("agent.name"))
		Expect(keys[len(keys)-1]).To(Equal("client.api_target"))
		Expect(keys).To(ContainElements(
			"capture.mode",
			"generation.provider",
			"animation.token_path",
			"memory.lore_path",
			"storage.sqlite_path",
			"event_stream.brokers",
		))
	})

	It("has no duplicates", func() {
		keys := config.ValidConfigKeys()
		seen := map[string]bool{}
		for _, k := range keys {
			Expect(seen).NotTo(HaveKey(k))
			seen[k] = true
		}
	})

	It("agrees with IsValidConfigKey", func() {
		for _, k := range config.ValidConfigKeys() {
			Expect(config.IsValidConfigKey(k)).To(BeTrue(), k)
		}
		Expect(config.IsValidConfigKey("voice.speed")).To(BeFalse())
		Expect(config.IsValidConfigKey("agent")).To(BeFalse())
	})
})

var _ = Describe("PresetConfig", func() {
	It("returns the ollama preset as the defaults", func() {
		cfg, err := config.PresetConfig("ollama")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.NewDefaultConfig()))
	})

	It("returns the anthropic preset", func() {
		cfg, err := config.PresetConfig("anthropic")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Generation.Provider).To(Equal("anthropic"))
		Expect(cfg.Generation.Target).To(BeEmpty())
		Expect(cfg.Emotion.Provider).To(Equal("llm"))
		Expect(cfg.Embedding.Provider).To(Equal("ollama"))
	})

	It("is case-insensitive", func() {
		cfg, err := config.PresetConfig("Anthropic")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Generation.Provider).To(Equal("anthropic"))
	})

	It("returns error for unknown preset", func() {
		_, err := config.PresetConfig("openai")
		Expect(err).To(MatchError(ContainSubstring("available: ollama, anthropic")))
	})
})

var _ = Describe("ParseConfigTOML", func() {
	It("parses valid TOML into a Config", func() {
		cfg, err := config.ParseConfigTOML([]byte(`[playback]
engine = "none"
word_delay = "200ms"
`))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Playback.Engine).To(Equal("none"))
		Expect(cfg.Playback.WordDelay.Duration).To(Equal(200 * time.Millisecond))
	})

	It("returns empty config for empty input", func() {
		cfg, err := config.ParseConfigTOML(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(*cfg).To(Equal(config.Config{}))
	})

	It("rejects unsupported config version", func() {
		_, err := config.ParseConfigTOML([]byte("version = 2\n"))
		Expect(err).To(MatchError(ContainSubstring("unsupported config version 2")))
	})
})

var _ = Describe("Duration", func() {
	It("marshals as text", func() {
		b, err := config.D(90 * time.Second).MarshalText()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(Equal("1m30s"))
	})

	It("treats empty text as zero", func() {
		d := config.D(time.Second)
		Expect(d.UnmarshalText(nil)).To(Succeed())
		Expect(d.Duration).To(BeZero())
	})
})
