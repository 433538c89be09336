package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/railsim/internal/config"
	"github.com/san-kum/railsim/internal/export"
	"github.com/san-kum/railsim/internal/gui"
	"github.com/san-kum/railsim/internal/metrics"
	"github.com/san-kum/railsim/internal/scene"
	"github.com/san-kum/railsim/internal/score"
	"github.com/san-kum/railsim/internal/sim"
	"github.com/san-kum/railsim/internal/storage"
	"github.com/san-kum/railsim/internal/train"
	"github.com/san-kum/railsim/internal/viz"
)

var (
	configFile string
	scenePath  string
	dataDir    string
	preset     string
	dt         float64
	duration   float64
	cars       int
	frameRate  int
	atMetre    float64
	imgWidth   int
	imgHeight  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "railsim",
		Short: "train driving simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the GUI cab when no command is given.
			return driveGUI(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&scenePath, "scene", "", "scene file path (yaml), empty for the demo line")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "train preset")
	rootCmd.PersistentFlags().IntVar(&cars, "cars", config.DefaultCars, "number of cars")

	driveCmd := &cobra.Command{
		Use:   "drive",
		Short: "drive the line in the gui cab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return driveGUI(cmd)
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "drive the line in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "headless autopilot run, recorded to the data directory",
		RunE:  runHeadless,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's trace to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render one frame of the line to SVG on stdout, or a run's speed profile",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().Float64Var(&atMetre, "at", 0, "cab position along the line, metres")
	exportSVGCmd.Flags().IntVar(&imgWidth, "width", 1280, "image width")
	exportSVGCmd.Flags().IntVar(&imgHeight, "height", 720, "image height")

	scoresCmd := &cobra.Command{
		Use:   "scores",
		Short: "show the session score history",
		RunE:  showScores,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list train presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("%-10s %d cars, accel %.1f, brake %.1f, dwell %.0fs\n",
					name, p.Train.Cars, p.Train.MaxAccel, p.Train.MaxBrake, p.Train.DwellTime)
			}
			return nil
		},
	}

	rootCmd.AddCommand(driveCmd, liveCmd, runCmd, listCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, scoresCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective config: file, then preset, then
// flags, in increasing priority.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %v)", preset, config.ListPresets())
		}
		cfg.Train = p.Train
		if p.Duration > 0 {
			cfg.Duration = p.Duration
		}
	}
	if cmd.Flags().Changed("scene") || cfg.Scene == "" {
		cfg.Scene = scenePath
	}
	if cmd.Flags().Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if cmd.Flags().Changed("cars") {
		cfg.Train.Cars = cars
	}
	if f := cmd.Flags().Lookup("dt"); f != nil && f.Changed {
		cfg.Dt = dt
	}
	if f := cmd.Flags().Lookup("time"); f != nil && f.Changed {
		cfg.Duration = duration
	}
	return cfg, nil
}

func loadScene(cfg *config.Config) (*scene.Scene, error) {
	desc := scene.Demo()
	if cfg.Scene != "" {
		loaded, err := scene.Load(cfg.Scene)
		if err != nil {
			return nil, err
		}
		desc = loaded
	}
	return scene.Build(desc)
}

func driveGUI(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := loadScene(cfg)
	if err != nil {
		return err
	}
	return gui.Run(cfg, sc)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := loadScene(cfg)
	if err != nil {
		return err
	}

	s := sim.New(sc, train.New(cfg.TrainParams()))
	s.SetCars(cfg.Train.Cars)
	s.Camera().FOV = cfg.Camera.FOV

	model := viz.NewModel(s, 1.0/float64(frameRate))
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := loadScene(cfg)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s := sim.New(sc, train.New(cfg.TrainParams()))
	s.AddMetric(metrics.NewMaxSpeed())
	s.AddMetric(metrics.NewSpeedingTime())
	s.AddMetric(metrics.NewStopAccuracy(stopTargets(sc)))

	fmt.Printf("driving %s (%.0f m, %d stations)...\n",
		sc.Name, sc.Track.Total(), len(sc.Track.Stations()))
	start := time.Now()

	simCfg := sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, Cars: cfg.Train.Cars}
	result, err := s.Run(context.Background(), autopilot(s, cfg.TrainParams()), simCfg)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %v\n", e)
	}

	runID, err := st.Save(sc.Name, simCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", len(result.States))
	fmt.Println("\nevents:")
	for _, ev := range result.Events {
		switch ev := ev.(type) {
		case train.StationArrival:
			fmt.Printf("  t=%6.1fs  stopped at %s\n", ev.Time, sc.Track.Stations()[ev.Station].Name)
		case train.EndOfLine:
			fmt.Printf("  t=%6.1fs  end of line\n", ev.Time)
		}
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.3f\n", name, val)
	}
	return nil
}

// stopTargets lists the ideal stop position of every stopping station.
func stopTargets(sc *scene.Scene) []float64 {
	var targets []float64
	for _, st := range sc.Track.Stations() {
		if st.Stop {
			targets = append(targets, st.End-4)
		}
	}
	return targets
}

// autopilot is the headless driver: full power until the braking
// distance to the next stop reaches the target, then full brake.
// Speed limits are enforced by the train itself.
func autopilot(s *sim.Simulator, p train.Params) func(float64) sim.Input {
	served := make(map[int]bool)
	return func(t float64) sim.Input {
		tr := s.Train()
		trk := s.Scene().Track

		if tr.Phase == train.AtStation {
			served[tr.Station] = true
			return sim.Input{Throttle: 1}
		}

		target := trk.Total()
		for i, st := range trk.Stations() {
			if st.Stop && !served[i] && st.End-4 > tr.S {
				target = st.End - 4
				break
			}
		}

		brakeDist := tr.V * tr.V / (2 * p.MaxBrake * 0.9)
		if tr.S+brakeDist >= target {
			return sim.Input{Throttle: -1}
		}
		return sim.Input{Throttle: 1}
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tCARS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%.4fs\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Cars,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(states))

	speed := make([]float64, len(states))
	limit := make([]float64, len(states))
	for i, s := range states {
		speed[i] = s.V * 3.6
		limit[i] = s.Limit * 3.6
	}

	fmt.Println(asciigraph.Plot(speed,
		asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("speed, km/h")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(limit,
		asciigraph.Height(6), asciigraph.Width(80), asciigraph.Caption("limit, km/h")))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()
	if err := w.Write([]string{"time", "s", "v", "a", "limit", "phase"}); err != nil {
		return err
	}
	for i, s := range states {
		row := []string{
			strconv.FormatFloat(times[i], 'f', 6, 64),
			strconv.FormatFloat(s.S, 'f', 6, 64),
			strconv.FormatFloat(s.V, 'f', 6, 64),
			strconv.FormatFloat(s.A, 'f', 6, 64),
			strconv.FormatFloat(s.Limit, 'f', 6, 64),
			strconv.Itoa(int(s.Phase)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportJSON(args[0], os.Stdout)
}

// exportSVG renders a scene frame at --at metres, or, given a run ID,
// that run's speed profile.
func exportSVG(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		st := storage.New(dataDir)
		states, _, err := st.LoadStates(args[0])
		if err != nil {
			return err
		}
		doc := export.SpeedProfileSVG(states, imgWidth, imgHeight)
		if doc == "" {
			return fmt.Errorf("run %s has no trace to plot", args[0])
		}
		_, err = fmt.Print(doc)
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := loadScene(cfg)
	if err != nil {
		return err
	}

	s := sim.New(sc, train.New(cfg.TrainParams()))
	s.SetCars(cfg.Train.Cars)
	s.Train().S = atMetre
	s.Camera().FOV = cfg.Camera.FOV

	_, err = fmt.Print(export.FrameSVG(s, imgWidth, imgHeight))
	return err
}

func showScores(cmd *cobra.Command, args []string) error {
	h, err := score.LoadHistory(dataDir + "/scores.json")
	if err != nil {
		return err
	}
	if len(h.Sessions) == 0 {
		fmt.Println("no sessions recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tDATE\tPOINTS\tSTARS")
	for i, s := range h.Sessions {
		fmt.Fprintf(w, "%d\t%s\t%.0f\t%.1f\n", i, s.Date, s.Points, s.Stars)
	}
	return w.Flush()
}
