// Package runcmder provides the run and serve commands, which start the
// character: capture, generation, memory, playback, the avatar and the
// optional control API.
package runcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Gorgooo61/AI-character/api"
	apimcp "github.com/Gorgooo61/AI-character/api/mcp"
	"github.com/Gorgooo61/AI-character/cmd/character/wiring"
	"github.com/Gorgooo61/AI-character/pkg/agent"
	"github.com/Gorgooo61/AI-character/pkg/animation"
	animationutils "github.com/Gorgooo61/AI-character/pkg/animation/utils"
	"github.com/Gorgooo61/AI-character/pkg/capture"
	captureutils "github.com/Gorgooo61/AI-character/pkg/capture/utils"
	"github.com/Gorgooo61/AI-character/pkg/config"
	"github.com/Gorgooo61/AI-character/pkg/dotdir"
	emotionutils "github.com/Gorgooo61/AI-character/pkg/emotion/utils"
	playbackutils "github.com/Gorgooo61/AI-character/pkg/playback/utils"
	"github.com/Gorgooo61/AI-character/pkg/session"
	"github.com/Gorgooo61/AI-character/pkg/status"
)

type runCommander struct {
	flags config.FlagSet

	name            string
	captureMode     string
	autonomous      bool
	genProvider     string
	genTarget       string
	genModel        string
	emotionProvider string
	playbackEngine  string
	avatar          bool
	animationDriver string
	animationTarget string
	lorePath        string
	vectorProvider  string
	vectorTarget    string
	embedProvider   string
	embedTarget     string
	embedModel      string
	embedDimensions uint
	storageProvider string
	sqlitePath      string
	postgresDSN     string
	eventStream     string
	kafkaBrokers    string
	apiEnabled      bool
	apiListen       string

	configDir string
	logFile   string
	debug     bool

	// headless forces API capture and an enabled API.
	headless bool

	// stdin and stdout feed console capture and playback.
	stdin  io.Reader
	stdout io.Writer

	cfg    *config.Config
	logger *slog.Logger
}

// runFlags lists the registry keys bound on run and serve.
var runFlags = []string{
	config.FlagName,
	config.FlagCaptureMode,
	config.FlagAutonomous,
	config.FlagGenProvider,
	config.FlagGenTarget,
	config.FlagGenModel,
	config.FlagEmotionProvider,
	config.FlagPlaybackEngine,
	config.FlagAvatar,
	config.FlagAnimationDriver,
	config.FlagAnimationTarget,
	config.FlagLorePath,
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagStorage,
	config.FlagSQLite,
	config.FlagPostgres,
	config.FlagEventStream,
	config.FlagKafkaBrokers,
	config.FlagAPIEnabled,
	config.FlagAPIListen,
}

const runLongDesc string = `Start the character.

The character listens for input (typed on the console or posted to the API),
answers with the configured generation model, recalls recent turns, lore and
long-term facts, shows its emotion on the avatar and, when nobody has spoken
for a while, talks on its own.

Configuration comes from config.toml in the .character/ directory, then
CHARACTER_* environment variables, then the flags below.

Examples:
  character run
  character run --model llama3.2 --lore ./lore.json
  character run --provider anthropic --model claude-haiku-4-5
  character run --avatar --animation-driver vtubestudio`

const runShortDesc string = "Start the character"

const serveLongDesc string = `Run the character headless.

Like run, but input only arrives through the HTTP API (POST /input or
"character say") and the API is always enabled.

Examples:
  character serve
  character serve --api-listen :9000`

const serveShortDesc string = "Run the character with API input only"

func NewRunCmd() *cobra.Command {
	return newCommander(false).command("run", runShortDesc, runLongDesc)
}

func NewServeCmd() *cobra.Command {
	return newCommander(true).command("serve", serveShortDesc, serveLongDesc)
}

func newCommander(headless bool) *runCommander {
	return &runCommander{
		flags:    config.Flags,
		headless: headless,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
	}
}

func (c *runCommander) command(use, short, long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			c.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(c.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, c.flags, runFlags)

			c.cfg, err = config.FromViper(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if c.headless {
				c.cfg.Capture.Mode = capture.ModeAPI
				c.cfg.API.Enabled = true
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			c.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return c.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, c.flags, config.FlagName, &c.name)
	if !c.headless {
		config.AddStringFlag(cmd, c.flags, config.FlagCaptureMode, &c.captureMode)
	}
	config.AddBoolFlag(cmd, c.flags, config.FlagAutonomous, &c.autonomous)
	config.AddStringFlag(cmd, c.flags, config.FlagGenProvider, &c.genProvider)
	config.AddStringFlag(cmd, c.flags, config.FlagGenTarget, &c.genTarget)
	config.AddStringFlag(cmd, c.flags, config.FlagGenModel, &c.genModel)
	config.AddStringFlag(cmd, c.flags, config.FlagEmotionProvider, &c.emotionProvider)
	config.AddStringFlag(cmd, c.flags, config.FlagPlaybackEngine, &c.playbackEngine)
	config.AddBoolFlag(cmd, c.flags, config.FlagAvatar, &c.avatar)
	config.AddStringFlag(cmd, c.flags, config.FlagAnimationDriver, &c.animationDriver)
	config.AddStringFlag(cmd, c.flags, config.FlagAnimationTarget, &c.animationTarget)
	config.AddStringFlag(cmd, c.flags, config.FlagLorePath, &c.lorePath)
	config.AddStringFlag(cmd, c.flags, config.FlagVectorStoreProv, &c.vectorProvider)
	config.AddStringFlag(cmd, c.flags, config.FlagVectorStoreTgt, &c.vectorTarget)
	config.AddStringFlag(cmd, c.flags, config.FlagEmbeddingProv, &c.embedProvider)
	config.AddStringFlag(cmd, c.flags, config.FlagEmbeddingTgt, &c.embedTarget)
	config.AddStringFlag(cmd, c.flags, config.FlagEmbeddingModel, &c.embedModel)
	config.AddUintFlag(cmd, c.flags, config.FlagEmbeddingDims, &c.embedDimensions)
	config.AddStringFlag(cmd, c.flags, config.FlagStorage, &c.storageProvider)
	config.AddStringFlag(cmd, c.flags, config.FlagSQLite, &c.sqlitePath)
	config.AddStringFlag(cmd, c.flags, config.FlagPostgres, &c.postgresDSN)
	config.AddStringFlag(cmd, c.flags, config.FlagEventStream, &c.eventStream)
	config.AddStringFlag(cmd, c.flags, config.FlagKafkaBrokers, &c.kafkaBrokers)
	if !c.headless {
		config.AddBoolFlag(cmd, c.flags, config.FlagAPIEnabled, &c.apiEnabled)
	}
	config.AddStringFlag(cmd, c.flags, config.FlagAPIListen, &c.apiListen)
	cmd.Flags().StringVar(&c.logFile, "log-file", "", "Also write JSON logs to this file (default: character.log in the character dir)")

	return cmd
}

func (c *runCommander) run(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg := c.cfg

	logPath, err := dotdir.NewManager().Resolve(c.configDir, c.logFile, dotdir.LogFileName)
	if err != nil {
		return fmt.Errorf("resolving log file: %w", err)
	}
	var closeLog func() error
	c.logger, closeLog, err = wiring.NewLogger(wiring.LogOpts{
		Debug:     c.debug,
		File:      logPath,
		Console:   os.Stderr,
		Character: cfg.Agent.Name,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	sessions, err := session.NewManager(c.configDir)
	if err != nil {
		return err
	}
	lock, err := sessions.Acquire()
	if err != nil {
		return err
	}
	defer lock.Release()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := status.New(status.WithLogger(c.logger))
	bus.SetBool(status.AvatarEnabled, cfg.Animation.Enabled)

	gen, err := wiring.NewGenerator(cfg, c.logger)
	if err != nil {
		return err
	}

	classifier, err := emotionutils.NewClassifier(&emotionutils.NewClassifierOpts{
		ProviderType: cfg.Emotion.Provider,
		Generator:    gen,
		Lexicon:      cfg.Emotion.Lexicon,
	})
	if err != nil {
		return fmt.Errorf("creating emotion classifier: %w", err)
	}

	capturer, err := captureutils.NewCapturer(&captureutils.NewCapturerOpts{
		Mode:   cfg.Capture.Mode,
		Input:  c.stdin,
		Bus:    bus,
		Logger: c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating capture: %w", err)
	}

	player, err := playbackutils.NewPlayer(&playbackutils.NewPlayerOpts{
		Engine:    cfg.Playback.Engine,
		Name:      cfg.Agent.Name,
		WordDelay: cfg.Playback.WordDelay.Duration,
		Plain:     cfg.Playback.Plain,
		Output:    c.stdout,
		Bus:       bus,
		Logger:    c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating playback: %w", err)
	}

	worker, err := c.newAnimationWorker(bus)
	if err != nil {
		return err
	}

	mem, err := wiring.NewMemory(ctx, cfg, wiring.MemoryOpts{
		ConfigDir: c.configDir,
		Generator: gen,
		Logger:    c.logger,
	})
	if err != nil {
		worker.Stop()
		return err
	}
	defer mem.Close()

	arch, err := wiring.NewArchive(ctx, cfg, c.configDir, c.logger)
	if err != nil {
		worker.Stop()
		return err
	}
	defer arch.Close()

	loop, err := agent.New(agent.Config{
		Capture:    capturer,
		Generator:  gen,
		Classifier: classifier,
		Player:     player,
		Memory:     mem.Orchestrator,
		Bus:        bus,
		Animation:  worker,
		Archive:    arch.Pool,
		Settings:   wiring.Settings(cfg),
		Logger:     c.logger,
	})
	if err != nil {
		worker.Stop()
		return fmt.Errorf("creating agent: %w", err)
	}
	defer loop.Close()

	state := &session.State{
		Name:        cfg.Agent.Name,
		CaptureMode: cfg.Capture.Mode,
		LogPath:     logPath,
	}

	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer, err = c.newAPIServer(bus, mem, arch, capturer, worker)
		if err != nil {
			return err
		}
		state.APIURL = apiURL(cfg.API.Listen)
	}

	if err := sessions.Save(state); err != nil {
		return err
	}
	defer sessions.Clear()

	worker.Start(ctx)
	if err := capturer.Start(ctx); err != nil {
		return fmt.Errorf("starting capture: %w", err)
	}

	c.logger.Info("character started",
		"name", cfg.Agent.Name,
		"capture", cfg.Capture.Mode,
		"generation", cfg.Generation.Provider,
		"model", cfg.Generation.Model,
		"api", state.APIURL,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(gctx)
	})
	if apiServer != nil {
		g.Go(func() error {
			if err := apiServer.Run(); err != nil {
				return fmt.Errorf("API server error: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return apiServer.Shutdown()
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	c.logger.Info("character stopping")
	return err
}

func (c *runCommander) newAnimationWorker(bus *status.Bus) (*animation.Worker, error) {
	cfg := c.cfg.Animation

	tokenPath, err := dotdir.NewManager().Resolve(c.configDir, cfg.TokenPath, dotdir.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("resolving avatar token path: %w", err)
	}

	driver, err := animationutils.NewDriver(&animationutils.NewDriverOpts{
		ProviderType:    cfg.Driver,
		TargetURL:       cfg.Target,
		PluginName:      cfg.PluginName,
		PluginDeveloper: cfg.PluginDeveloper,
		TokenPath:       tokenPath,
		Logger:          c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating avatar driver: %w", err)
	}

	var hotkeys map[string]string
	if len(cfg.Hotkeys) > 0 {
		hotkeys = animation.DefaultHotkeys()
		for label, hk := range cfg.Hotkeys {
			hotkeys[label] = hk
		}
	}

	return animation.NewWorker(animation.Config{
		Driver:  driver,
		Bus:     bus,
		Hotkeys: hotkeys,
		Logger:  c.logger,
	}), nil
}

func (c *runCommander) newAPIServer(
	bus *status.Bus,
	mem *wiring.Memory,
	arch *wiring.Archive,
	capturer capture.Capturer,
	worker *animation.Worker,
) (*api.Server, error) {
	thresholds := wiring.Thresholds(c.cfg)

	mcpServer, err := apimcp.NewServer(apimcp.Config{
		Memory:     mem.Orchestrator,
		Thresholds: thresholds,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}

	apiCfg := api.Config{
		ListenAddr: c.cfg.API.Listen,
		Bus:        bus,
		Memory:     mem.Orchestrator,
		Thresholds: thresholds,
		Archive:    arch.Driver,
		Hotkeys:    worker,
		MCPHandler: mcpServer.Handler(),
		Logger:     c.logger,
	}
	// Only the API capturer accepts pushed input.
	if sink, ok := capturer.(api.InputSink); ok {
		apiCfg.Input = sink
	}

	server, err := api.NewServer(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("creating API server: %w", err)
	}
	return server, nil
}

// apiURL turns a listen address into a URL local clients can dial.
func apiURL(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "http://" + listen
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
