package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/akmonengine/grasp/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configFile string
	preset     string
	frames     int
	dt         float64
	plot       bool
	verbose    bool
	outFile    string
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "handsim",
		Short:         "scripted physics-driven hand scene",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the scripted grab scene",
		Args:  cobra.NoArgs,
		RunE:  runScene,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of frames")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "frame timestep")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot the wrist tracking lag")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "write the default config",
		Args:  cobra.NoArgs,
		RunE:  writeConfig,
	}
	configCmd.Flags().StringVar(&outFile, "out", "", "output file, stdout if empty")
	configCmd.Flags().StringVar(&preset, "preset", "", "write a preset instead of the defaults")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
			}
		},
	}

	rootCmd.AddCommand(runCmd, configCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "handsim:", err)
		os.Exit(1)
	}
}

// loadConfig applies the preset, then the config file, then the flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("frames") {
		cfg.Scene.Frames = frames
	}
	if cmd.Flags().Changed("dt") {
		cfg.Scene.Dt = dt
	}

	return cfg, cfg.Validate()
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr, verbose)
	s, err := newScene(cfg, logger)
	if err != nil {
		return err
	}

	r, err := s.run()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, summary(r))
	if plot && len(r.Lag) > 0 {
		graph := asciigraph.Plot(r.Lag,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("wrist tracking lag (m)"),
		)
		fmt.Fprintln(out, graph)
	}
	return nil
}

func summary(r *report) string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
	}

	rows := []string{
		titleStyle.Render("handsim"),
		row("frames", fmt.Sprintf("%d", r.Frames)),
		row("holds", fmt.Sprintf("%d", r.Holds)),
		row("resets", fmt.Sprintf("%d", r.Resets)),
		row("final state", r.FinalState.String()),
		row("max lag", fmt.Sprintf("%.4f m", r.MaxLag)),
		row("max opacity", fmt.Sprintf("%.2f", r.MaxOpacity)),
		row("max frozen", fmt.Sprintf("%d bones", r.MaxFrozen)),
		row("object moved", fmt.Sprintf("%.3f m", r.ObjectEnd.Sub(r.ObjectStart).Len())),
		row("joint changes", fmt.Sprintf("%d", r.JointChanges)),
		row("sleep / wake", fmt.Sprintf("%d / %d", r.SleepEvents, r.WakeEvents)),
	}

	var changes []string
	for _, c := range r.Changes {
		changes = append(changes, fmt.Sprintf("%4d  %s -> %s", c.Frame, c.From, c.To))
	}
	if len(changes) > 0 {
		rows = append(rows, "", warnStyle.Render("state changes"), strings.Join(changes, "\n"))
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if outFile != "" {
		return config.Save(outFile, cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
