// Package wiring builds the character's components from a resolved config.
// Every command that needs a generator, memory or the turn archive goes
// through here so they agree on defaults and on-disk locations.
package wiring

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Gorgooo61/AI-character/pkg/agent"
	"github.com/Gorgooo61/AI-character/pkg/archive"
	"github.com/Gorgooo61/AI-character/pkg/config"
	"github.com/Gorgooo61/AI-character/pkg/dotdir"
	embeddingutils "github.com/Gorgooo61/AI-character/pkg/embeddings/utils"
	"github.com/Gorgooo61/AI-character/pkg/eventstream"
	eventstreamutils "github.com/Gorgooo61/AI-character/pkg/eventstream/utils"
	"github.com/Gorgooo61/AI-character/pkg/generation"
	generationutils "github.com/Gorgooo61/AI-character/pkg/generation/utils"
	"github.com/Gorgooo61/AI-character/pkg/logger"
	"github.com/Gorgooo61/AI-character/pkg/memory"
	"github.com/Gorgooo61/AI-character/pkg/memory/facts"
	"github.com/Gorgooo61/AI-character/pkg/memory/longterm"
	"github.com/Gorgooo61/AI-character/pkg/memory/lore"
	"github.com/Gorgooo61/AI-character/pkg/memory/shortterm"
	"github.com/Gorgooo61/AI-character/pkg/storage"
	storageutils "github.com/Gorgooo61/AI-character/pkg/storage/utils"
	"github.com/Gorgooo61/AI-character/pkg/vector"
	vectorutils "github.com/Gorgooo61/AI-character/pkg/vector/utils"
)

// LoadConfig resolves the effective config for cmd from config.toml, the
// environment and any of the given registry flags registered on cmd. It
// also returns the --config-dir value.
func LoadConfig(cmd *cobra.Command, flagKeys ...string) (*config.Config, string, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, flagKeys)

	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	return cfg, configDir, nil
}

// CommandLogger returns the stderr logger used by short-lived commands,
// honouring the persistent --debug flag.
func CommandLogger(cmd *cobra.Command) *slog.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	return logger.New(
		logger.WithDebug(debug),
		logger.WithPretty(true),
		logger.WithWriter(cmd.ErrOrStderr()),
	)
}

// LogOpts configures NewLogger.
type LogOpts struct {
	Debug bool

	// File, when set, receives JSON records alongside the console.
	File string

	// Console defaults to os.Stderr.
	Console io.Writer

	// Character labels console lines and JSON records.
	Character string
}

// NewLogger returns the console logger, fanned out to a JSON log file when
// o.File is set. The returned close func releases the file.
func NewLogger(o LogOpts) (*slog.Logger, func() error, error) {
	console := logger.New(
		logger.WithDebug(o.Debug),
		logger.WithPretty(true),
		logger.WithPrefix(o.Character),
		logger.WithWriter(o.Console),
	)
	if o.File == "" {
		return console, func() error { return nil }, nil
	}

	f, err := os.OpenFile(o.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", o.File, err)
	}
	file := logger.New(
		logger.WithDebug(o.Debug),
		logger.WithJSON(true),
		logger.WithAttrs("character", o.Character),
		logger.WithWriter(f),
	)
	return logger.Multi(console, file), f.Close, nil
}

func NewGenerator(cfg *config.Config, log *slog.Logger) (generation.Generator, error) {
	gen, err := generationutils.NewGenerator(&generationutils.NewGeneratorOpts{
		ProviderType: cfg.Generation.Provider,
		TargetURL:    cfg.Generation.Target,
		Model:        cfg.Generation.Model,
		APIKey:       cfg.Generation.APIKey,
		KeepAlive:    cfg.Generation.KeepAlive,
		Logger:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating generator: %w", err)
	}
	return gen, nil
}

// Thresholds maps the memory section onto retrieval thresholds.
func Thresholds(cfg *config.Config) memory.Thresholds {
	m := cfg.Memory
	return memory.Thresholds{
		Long: longterm.Thresholds{
			Primary:      m.FactPrimary,
			PrimaryTopK:  m.FactPrimaryTopK,
			Fallback:     m.FactFallback,
			FallbackTopK: m.FactFallbackTopK,
		},
		LoreThreshold:  m.LoreThreshold,
		LoreTopK:       m.LoreTopK,
		ShortThreshold: m.ShortThreshold,
	}
}

// Settings maps the agent section onto loop settings.
func Settings(cfg *config.Config) agent.Settings {
	s := agent.DefaultSettings()
	a := cfg.Agent
	s.Autonomous = a.Autonomous
	if a.SystemPrompt != "" {
		s.SystemPrompt = a.SystemPrompt
	}
	if a.AutonomousPrompt != "" {
		s.AutonomousPrompt = a.AutonomousPrompt
	}
	if a.InputTimeout.Duration > 0 {
		s.InputTimeout = a.InputTimeout.Duration
	}
	if a.IdleSilence.Duration > 0 {
		s.IdleSilence = a.IdleSilence.Duration
	}
	if a.SpeechPatience.Duration > 0 {
		s.SpeechPatience = a.SpeechPatience.Duration
	}
	if a.MaxTokens > 0 {
		s.MaxTokens = a.MaxTokens
	}
	if a.Temperature > 0 {
		s.Temperature = a.Temperature
	}
	if a.TopP > 0 {
		s.TopP = a.TopP
	}
	s.Thresholds = Thresholds(cfg)
	return s
}

// Memory is the assembled memory stack.
type Memory struct {
	Orchestrator *memory.Orchestrator
	Facts        *longterm.Store
	Lore         *lore.Store

	vector vector.Driver
}

// MemoryOpts controls which parts of the memory stack are opened.
type MemoryOpts struct {
	ConfigDir string

	// Generator backs fact extraction. Extraction is off when nil or when
	// memory.extraction is false.
	Generator generation.Generator

	// SkipFacts leaves long-term memory unconfigured.
	SkipFacts bool

	Logger *slog.Logger
}

// NewMemory opens the lore file, the fact store and the short-term buffer.
func NewMemory(ctx context.Context, cfg *config.Config, o MemoryOpts) (*Memory, error) {
	log := logger.OrNop(o.Logger)
	ddm := dotdir.NewManager()

	lorePath, err := ddm.Resolve(o.ConfigDir, cfg.Memory.LorePath, dotdir.LoreFile)
	if err != nil {
		return nil, fmt.Errorf("resolving lore path: %w", err)
	}
	loreStore, err := lore.LoadFile(lorePath, log)
	if err != nil {
		return nil, err
	}

	m := &Memory{Lore: loreStore}
	mc := memory.Config{
		Short:  shortterm.NewStore(shortterm.Config{TTL: cfg.Memory.ShortTTL.Duration}),
		Lore:   loreStore,
		Logger: log,
	}

	if !o.SkipFacts {
		m.vector, m.Facts, err = openFacts(ctx, cfg, o.ConfigDir, log)
		if err != nil {
			return nil, err
		}
		mc.Facts = m.Facts
	}
	if o.Generator != nil && cfg.Memory.Extraction {
		mc.Extractor = facts.NewExtractor(o.Generator, log)
	}

	m.Orchestrator = memory.New(mc)
	return m, nil
}

func openFacts(ctx context.Context, cfg *config.Config, configDir string, log *slog.Logger) (vector.Driver, *longterm.Store, error) {
	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
		CacheBytes:   cfg.Embedding.CacheBytes,
		Logger:       log,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating embedder: %w", err)
	}

	path := cfg.VectorStore.Path
	switch cfg.VectorStore.Provider {
	case "sqlite":
		path, err = dotdir.NewManager().Resolve(configDir, path, dotdir.FactsDB)
	case "chromem":
		path, err = dotdir.NewManager().Resolve(configDir, path, dotdir.ChromemDir)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("resolving vector store path: %w", err)
	}

	driver, err := vectorutils.NewVectorDriver(ctx, &vectorutils.NewVectorDriverOpts{
		ProviderType: cfg.VectorStore.Provider,
		TargetURL:    cfg.VectorStore.Target,
		Port:         cfg.VectorStore.Port,
		APIKey:       cfg.VectorStore.APIKey,
		Path:         path,
		Collection:   cfg.VectorStore.Collection,
		Dimensions:   cfg.Embedding.Dimensions,
		Logger:       log,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("opening vector store: %w", err)
	}

	log.Info("long-term memory ready",
		"vector_store", cfg.VectorStore.Provider,
		"embedding_model", cfg.Embedding.Model,
	)
	return driver, longterm.New(driver, embedder, log), nil
}

func (m *Memory) Close() error {
	if m == nil || m.vector == nil {
		return nil
	}
	return m.vector.Close()
}

// NewStorage opens the configured turn archive.
func NewStorage(ctx context.Context, cfg *config.Config, configDir string) (storage.Driver, error) {
	path := cfg.Storage.SQLitePath
	if cfg.Storage.Provider == storageutils.ProviderSQLite {
		var err error
		path, err = dotdir.NewManager().Resolve(configDir, path, dotdir.TurnsDB)
		if err != nil {
			return nil, fmt.Errorf("resolving archive path: %w", err)
		}
	}

	driver, err := storageutils.NewDriver(ctx, &storageutils.NewDriverOpts{
		ProviderType: cfg.Storage.Provider,
		SQLitePath:   path,
		PostgresDSN:  cfg.Storage.PostgresDSN,
	})
	if err != nil {
		return nil, fmt.Errorf("opening turn archive: %w", err)
	}
	return driver, nil
}

// Archive is the turn archive with its publisher and worker pool.
type Archive struct {
	Driver    storage.Driver
	Publisher eventstream.Publisher
	Pool      *archive.Pool
}

// NewArchive opens storage and the event publisher and starts the pool.
func NewArchive(ctx context.Context, cfg *config.Config, configDir string, log *slog.Logger) (*Archive, error) {
	driver, err := NewStorage(ctx, cfg, configDir)
	if err != nil {
		return nil, err
	}

	publisher, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		ProviderType: cfg.EventStream.Provider,
		Brokers:      cfg.EventStream.Brokers,
		Topic:        cfg.EventStream.Topic,
		ClientID:     cfg.EventStream.ClientID,
		Logger:       log,
	})
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("creating event publisher: %w", err)
	}

	pool, err := archive.NewPool(&archive.Config{
		Driver:    driver,
		Publisher: publisher,
		Source: eventstream.EventSource{
			Character: cfg.Agent.Name,
			Generator: cfg.Generation.Provider + "/" + cfg.Generation.Model,
		},
		Logger: log,
	})
	if err != nil {
		publisher.Close()
		driver.Close()
		return nil, err
	}

	log.Info("turn archive ready",
		"storage", cfg.Storage.Provider,
		"event_stream", cfg.EventStream.Provider,
	)
	return &Archive{Driver: driver, Publisher: publisher, Pool: pool}, nil
}

// Close releases the publisher and storage. The pool is drained by the
// agent loop before this runs.
func (a *Archive) Close() error {
	if a == nil {
		return nil
	}
	return errors.Join(a.Pool.Close(), a.Publisher.Close(), a.Driver.Close())
}
