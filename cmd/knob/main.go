package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/alkime/knobs/internal/config"
	"github.com/alkime/knobs/internal/control"
	"github.com/alkime/knobs/internal/haptics"
	"github.com/alkime/knobs/internal/logger"
	"github.com/alkime/knobs/internal/tui"
	"github.com/alkime/knobs/internal/workdir"
	tea "github.com/charmbracelet/bubbletea"
)

// CLI defines the knob command structure.
type CLI struct {
	// Default TUI command (runs when no subcommand given)
	TUI TUICmd `cmd:"" default:"withargs" help:"Launch the terminal knob"`

	// Subcommands
	Markers MarkersCmd `cmd:"" help:"Inspect saved markers"`
	Config  ConfigCmd  `cmd:"" help:"Print the resolved configuration"`
	Devices DevicesCmd `cmd:"" help:"List audio playback devices for click feedback"`
}

// TUICmd is the default command that runs the TUI.
type TUICmd struct {
	Value   float64 `flag:"" default:"0" help:"Initial knob value"`
	Min     float64 `flag:"" default:"0" help:"Range minimum"`
	Max     float64 `flag:"" default:"1" help:"Range maximum"`
	Size    int     `flag:"" default:"41" help:"Dial width in columns"`
	NoSnap  bool    `flag:"" name:"no-snap" help:"Start with snapping disabled"`
	Haptics string  `flag:"" optional:"" help:"Feedback sinks, overrides KNOB_HAPTICS (none,log,bell,audio)"`
}

// Run executes the TUI command.
//
//nolint:funlen // CLI command with multiple setup steps
func (c *TUICmd) Run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workdir.Prep(); err != nil {
		return fmt.Errorf("failed to prepare working directory: %w", err)
	}

	// the TUI owns stdout, so log to a file
	logPath, err := workdir.LogFile()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec // Log file
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	log := logger.SetupLoggerTo(logFile, cfg)

	if c.Haptics != "" {
		cfg.Haptics = c.Haptics
	}

	sink, err := haptics.Open(ctx, haptics.Options{
		Kinds:  cfg.Haptics,
		Logger: log,
		Bell:   os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to open haptics: %w", err)
	}

	// always release audio devices when we're done
	defer func() {
		if err := sink.Close(context.Background()); err != nil {
			log.Error("Failed to close haptics", "error", err)
		}
	}()

	opts := tui.Options()
	opts.Engine.Range.Min = c.Min
	opts.Engine.Range.Max = c.Max
	opts.Engine.InitialValue = c.Value
	opts.Engine.Haptics = sink
	opts.Engine.Logger = log
	opts.Logger = log
	if c.NoSnap {
		opts.Snap.Enabled = false
	}

	k, err := control.New(opts)
	if err != nil {
		return fmt.Errorf("invalid knob options: %w", err)
	}

	storage, codec, err := openStore(cfg)
	if err != nil {
		return err
	}

	rows := c.Size / 2
	if rows%2 == 0 {
		rows++
	}

	// the load result is applied on the UI loop once the program exists
	var p *tea.Program
	ready := make(chan struct{})
	// pending writes still land after the UI quits
	binding := control.Bind(context.WithoutCancel(ctx), k, storage, cfg.MarkerKey,
		control.WithLogger(log),
		control.WithCodec(codec),
		control.WithSerializedWrites(),
		control.WithDispatcher(func(fn func()) {
			<-ready
			tui.Dispatcher(p)(fn)
		}),
	)

	p = tea.NewProgram(tui.New(tui.Config{
		Cancel:    cancel,
		Knob:      k,
		Binding:   binding,
		StoreName: storeName(cfg),
		Cols:      c.Size,
		Rows:      rows,
	}), tea.WithMouseCellMotion())
	close(ready)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	binding.Unbind()
	binding.Wait()

	fmt.Printf("\nvalue %.3f, %d markers. bye!\n", k.Value(), k.Markers().Len())

	return nil
}

// ConfigCmd prints the resolved configuration.
type ConfigCmd struct{}

// Run executes the config command.
//
//nolint:unparam // error return required by Kong interface
func (c *ConfigCmd) Run(cfg *config.Config) error {
	root, err := workdir.Root()
	if err != nil {
		root = "(unavailable: " + err.Error() + ")"
	}

	fmt.Printf("home:      %s\n", root)
	fmt.Printf("store:     %s\n", storeName(cfg))
	fmt.Printf("codec:     %s\n", cfg.StoreCodec)
	fmt.Printf("key:       %s\n", cfg.MarkerKey)
	fmt.Printf("haptics:   %s\n", cfg.Haptics)
	fmt.Printf("log level: %s\n", logger.Level(cfg))

	return nil
}

// DevicesCmd lists audio playback devices.
type DevicesCmd struct{}

// Run executes the devices command.
func (dcmd *DevicesCmd) Run() error {
	slog.Info("Enumerating playback devices...")

	devices, err := haptics.PlaybackDevices(context.Background())
	if err != nil {
		return fmt.Errorf("failed to enumerate audio devices: %w", err)
	}

	for _, dev := range devices {
		slog.Info("Audio Device",
			"name", dev.Name,
			"isDefault", dev.IsDefault,
			"formats", dev.Formats,
		)
	}

	return nil
}

func main() {
	// Set up text-based logger for CLI output
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "knob: %v\n", err)
		os.Exit(1)
	}

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("knob"),
		kong.Description("A rotary knob with markers, in your terminal."),
		kong.Bind(cfg),
	)
	err = ctx.Run()
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}
