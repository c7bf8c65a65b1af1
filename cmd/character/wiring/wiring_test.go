package wiring_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Gorgooo61/AI-character/cmd/character/wiring"
	"github.com/Gorgooo61/AI-character/pkg/archive"
	"github.com/Gorgooo61/AI-character/pkg/config"
	"github.com/Gorgooo61/AI-character/pkg/memory"
	testutils "github.com/Gorgooo61/AI-character/pkg/utils/test"
)

var _ = Describe("Settings", func() {
	It("maps the agent and memory sections", func() {
		cfg := config.NewDefaultConfig()
		cfg.Agent.Autonomous = false
		cfg.Agent.SystemPrompt = "You are Mika."
		cfg.Agent.IdleSilence = config.D(10 * time.Second)
		cfg.Agent.MaxTokens = 80
		cfg.Memory.LoreThreshold = 90
		cfg.Memory.FactPrimaryTopK = 3

		s := wiring.Settings(cfg)
		Expect(s.Autonomous).To(BeFalse())
		Expect(s.SystemPrompt).To(Equal("You are Mika."))
		Expect(s.IdleSilence).To(Equal(10 * time.Second))
		Expect(s.MaxTokens).To(Equal(80))
		Expect(s.Thresholds.LoreThreshold).To(Equal(90.0))
		Expect(s.Thresholds.Long.PrimaryTopK).To(Equal(3))
	})

	It("keeps built-in prompts when the config leaves them empty", func() {
		cfg := config.NewDefaultConfig()
		cfg.Agent.SystemPrompt = ""
		Expect(wiring.Settings(cfg).SystemPrompt).NotTo(BeEmpty())
	})

	It("matches the default memory thresholds for a default config", func() {
		Expect(wiring.Thresholds(config.NewDefaultConfig())).To(Equal(memory.DefaultThresholds()))
	})
})

var _ = Describe("NewMemory", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("loads lore from the character dir", func() {
		Expect(os.WriteFile(filepath.Join(dir, "lore.json"),
			[]byte(`["Mika lives in a lighthouse."]`), 0o644)).To(Succeed())

		m, err := wiring.NewMemory(context.Background(), config.NewDefaultConfig(), wiring.MemoryOpts{
			ConfigDir: dir,
			SkipFacts: true,
		})
		Expect(err).NotTo(HaveOccurred())
		defer m.Close()

		Expect(m.Facts).To(BeNil())
		Expect(m.Orchestrator.SearchLore("Mika lives in a lighthouse", 80, 1)).
			To(ConsistOf("Mika lives in a lighthouse."))

		_, err = m.Orchestrator.SearchFacts(context.Background(), "tea", memory.DefaultThresholds().Long)
		Expect(err).To(MatchError(memory.ErrNotConfigured))
	})

	It("starts with empty lore when the file is missing", func() {
		m, err := wiring.NewMemory(context.Background(), config.NewDefaultConfig(), wiring.MemoryOpts{
			ConfigDir: dir,
			SkipFacts: true,
			Generator: &testutils.MockGenerator{},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Orchestrator.SearchLore("anything", 0, 5)).To(BeEmpty())
	})

	It("rejects malformed lore", func() {
		Expect(os.WriteFile(filepath.Join(dir, "lore.json"), []byte(`{`), 0o644)).To(Succeed())
		_, err := wiring.NewMemory(context.Background(), config.NewDefaultConfig(), wiring.MemoryOpts{
			ConfigDir: dir,
			SkipFacts: true,
		})
		Expect(err).To(HaveOccurred())
	})

	It("fails on an unknown vector store", func() {
		cfg := config.NewDefaultConfig()
		cfg.VectorStore.Provider = "nope"
		_, err := wiring.NewMemory(context.Background(), cfg, wiring.MemoryOpts{ConfigDir: dir})
		Expect(err).To(MatchError(ContainSubstring("opening vector store")))
	})
})

var _ = Describe("NewArchive", func() {
	It("archives turns into the configured storage", func() {
		cfg := config.NewDefaultConfig()
		cfg.Storage.Provider = "inmemory"

		a, err := wiring.NewArchive(context.Background(), cfg, GinkgoT().TempDir(), nil)
		Expect(err).NotTo(HaveOccurred())

		now := time.Now()
		Expect(a.Pool.Enqueue(archive.Job{
			TurnID:      "turn-1",
			UserText:    "hi",
			Assistant:   "hello!",
			StartedAt:   now,
			CompletedAt: now,
		})).To(BeTrue())
		Expect(a.Pool.Close()).To(Succeed())

		turn, err := a.Driver.Get(context.Background(), "turn-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(turn.AssistantText).To(Equal("hello!"))
		Expect(a.Close()).To(Succeed())
	})

	It("rejects an unknown storage provider", func() {
		cfg := config.NewDefaultConfig()
		cfg.Storage.Provider = "cassette"
		_, err := wiring.NewArchive(context.Background(), cfg, GinkgoT().TempDir(), nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NewLogger", func() {
	It("writes JSON records to the log file as well as the console", func() {
		logFile := filepath.Join(GinkgoT().TempDir(), "character.log")
		var console bytes.Buffer

		log, closeFn, err := wiring.NewLogger(wiring.LogOpts{File: logFile, Console: &console, Character: "Mika"})
		Expect(err).NotTo(HaveOccurred())
		log.Info("hello", "turn", "t1")
		Expect(closeFn()).To(Succeed())

		data, err := os.ReadFile(logFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"msg":"hello"`))
		Expect(string(data)).To(ContainSubstring(`"character":"Mika"`))
		Expect(console.String()).To(ContainSubstring("hello"))
	})
})
