package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"go-pulsator/config"
	"go-pulsator/debug"
	dev "go-pulsator/development"
	"go-pulsator/generate"
	"go-pulsator/midi"
	"go-pulsator/score"
	"go-pulsator/sequencer"
	"go-pulsator/theme"
	"go-pulsator/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches one subcommand. The debug log is flushed before it returns.
func run(argv []string) error {
	if len(argv) < 1 {
		usage()
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Debug {
		path := cfg.DebugLog
		if path == "" {
			path = debug.DefaultPath()
		}
		if err := debug.Enable(path); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	args := argv[1:]
	switch argv[0] {
	case "list":
		err = listPorts()
	case "generate":
		err = generateScore(cfg, args)
	case "describe":
		err = describePlan(cfg, args)
	case "saves":
		err = listSaves()
	case "play":
		err = playScore(cfg, args)
	case "export":
		err = exportScore(cfg, args)
	case "tui":
		err = runTUI(cfg, args)
	default:
		usage()
		return nil
	}

	if err != nil {
		debug.Logger().Error("command failed", zap.String("command", argv[0]), zap.Error(err))
	}
	return err
}

func usage() {
	fmt.Println("go-pulsator")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                  - List MIDI output ports")
	fmt.Println("  generate [-o file]    - Generate a score into the library (or file)")
	fmt.Println("  describe              - Print the developments of the default plan")
	fmt.Println("  saves                 - List saved scores, newest first")
	fmt.Println("  play [score]          - Play a score on the configured port")
	fmt.Println("  export [score] -o f   - Render a score to a standard MIDI file")
	fmt.Println("  tui [score]           - Play a score with the transport UI")
	fmt.Println("")
	fmt.Println("Without a score argument the newest saved score is used.")
}

func listPorts() error {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Printf("(waiting up to %s...)\n", midi.ScanTimeout)

	names, err := midi.ListPorts()
	if errors.Is(err, midi.ErrScanTimeout) {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return nil
	}
	if err != nil {
		return err
	}
	for i, name := range names {
		fmt.Printf("  %d: %s\n", i, name)
	}
	return nil
}

func planFlags(cfg *config.Config, fs *flag.FlagSet) (seed *uint64, beats, voices *int) {
	seed = fs.Uint64("seed", cfg.Generate.Seed, "random seed")
	beats = fs.Int("beats", cfg.Generate.Beats, "length in beats")
	voices = fs.Int("voices", cfg.Generate.Voices, "number of voices")
	return
}

// newPlan builds the default plan. The plan and the generator share rng so
// a seed fixes the whole piece.
func newPlan(cfg *config.Config, rng *rand.Rand, seed uint64, beats, voices int) generate.Plan {
	plan := generate.DefaultPlan(rng, beats, voices)
	plan.PulsesPerBeat = cfg.Playback.PulsesPerBeat
	plan.Title = fmt.Sprintf("seed %d", seed)
	return plan
}

func generateScore(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	seed, beats, voices := planFlags(cfg, fs)
	out := fs.String("o", "", "output file (default: the score library)")
	name := fs.String("name", "", "name appended to the library filename")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rng := dev.NewRand(*seed)
	s, err := generate.Generate(newPlan(cfg, rng, *seed, *beats, *voices), rng)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		lib, err := score.DefaultLibrary()
		if err != nil {
			return err
		}
		if path, err = lib.Save(s, *name); err != nil {
			return err
		}
	} else if err := s.Save(path); err != nil {
		return err
	}

	fmt.Printf("%d elements over %g beats -> %s\n", len(s.Elements), s.Length(), path)
	return nil
}

func describePlan(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	seed, beats, voices := planFlags(cfg, fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	plan := newPlan(cfg, dev.NewRand(*seed), *seed, *beats, *voices)
	fmt.Printf("%s: %d beats at %d pulses per beat\n\n", plan.Title, plan.Beats, plan.PulsesPerBeat)
	for _, v := range plan.Voices {
		fmt.Printf("  voice    %s %+d [%d, %d]\n", v.Instrument.Name, v.Offset, v.Low, v.High)
	}
	fmt.Println("")
	rows := []struct {
		name string
		d    fmt.Stringer
	}{
		{"density", plan.Density},
		{"pitch", plan.Pitch},
		{"length", plan.Length},
		{"dynamic", plan.Dynamic},
		{"kind", plan.Kind},
		{"interval", plan.Interval},
		{"tremolo", plan.Tremolo},
	}
	for _, r := range rows {
		fmt.Printf("  %-9s%s\n", r.name, r.d)
	}
	return nil
}

func listSaves() error {
	lib, err := score.DefaultLibrary()
	if err != nil {
		return err
	}
	saves, err := lib.Saves()
	if err != nil {
		return err
	}
	if len(saves) == 0 {
		fmt.Printf("No saves in %s\n", lib.Dir)
		return nil
	}
	for _, s := range saves {
		name := s.Name
		if name == "" {
			name = "-"
		}
		fmt.Printf("  %s  %-20s %s\n", s.Timestamp.Format("2006-01-02 15:04:05"), name, s.Filename)
	}
	return nil
}

// loadScore reads the score named by args, or the newest library save.
func loadScore(args []string) (*score.Score, error) {
	if len(args) > 0 {
		return score.Load(args[0])
	}
	lib, err := score.DefaultLibrary()
	if err != nil {
		return nil, err
	}
	s, err := lib.Open("")
	if errors.Is(err, score.ErrNoSaves) {
		return nil, fmt.Errorf("%w: run 'generate' first or pass a score file", err)
	}
	return s, err
}

func openOutput(cfg *config.Config) (*midi.Output, error) {
	send, name, err := midi.OpenPort(cfg.Output.PortName)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Output: %s\n", name)
	return midi.NewOutput(send), nil
}

func playScore(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	tempo := fs.Float64("tempo", cfg.Playback.Tempo, "beats per minute")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := loadScore(fs.Args())
	if err != nil {
		return err
	}

	out, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer midi.CloseDriver()

	session, err := sequencer.NewSession(out, s, *tempo)
	if err != nil {
		return err
	}
	var failure error
	session.OnFailure(func(err error) { failure = err })

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	fmt.Printf("Playing %q (%g beats at %g bpm), ctrl+c to stop\n", s.Title, s.Length(), *tempo)
	if err := session.Play(); err != nil {
		return err
	}

	select {
	case <-session.Done():
	case <-interrupt:
		session.Stop()
	}
	session.Wait()
	return failure
}

func exportScore(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	out := fs.String("o", "", "output .mid file")
	tempo := fs.Float64("tempo", cfg.Playback.Tempo, "tempo written to the file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := loadScore(fs.Args())
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		title := strings.ReplaceAll(s.Title, " ", "-")
		if title == "" {
			title = "score"
		}
		path = filepath.Join(".", title+".mid")
	}

	rec, err := sequencer.Render(s)
	if err != nil {
		return err
	}
	if err := rec.WriteFile(path, *tempo); err != nil {
		return err
	}
	fmt.Printf("%d messages -> %s\n", rec.Len(), path)
	return nil
}

func runTUI(cfg *config.Config, args []string) error {
	s, err := loadScore(args)
	if err != nil {
		return err
	}
	th, err := theme.Load(cfg.UI.Palette)
	if err != nil {
		return err
	}

	out, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer midi.CloseDriver()

	session, err := sequencer.NewSession(out, s, cfg.Playback.Tempo)
	if err != nil {
		return err
	}

	m := tui.NewModel(session, th)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	session.Stop()
	session.Wait()
	return err
}
