package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"debatekeeper/internal/alerts"
	"debatekeeper/internal/format"
	"debatekeeper/internal/formats"
	"debatekeeper/internal/store"
	"debatekeeper/internal/timer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runSpeech   int
	runSaveName string
	runResumeID string
)

// runCmd times one speech of a format
var runCmd = &cobra.Command{
	Use:   "run [format]",
	Short: "Time a speech of the given format",
	Long: `Loads the named format from the formats directory and times one of
its speeches. The clock ticks once a second and rings the format's
bells; after the speech length it rings overtime bells on the
configured schedule.

Controls: press Enter to start or stop the clock, "r" to reset the
speech, "q" to quit.

Example:
  debatekeeper run australs --speech 3`,
	Args: cobra.ExactArgs(1),
	RunE: runSpeechTimer,
}

func init() {
	runCmd.Flags().IntVar(&runSpeech, "speech", 1, "Speech to time (1-based index)")
	runCmd.Flags().StringVar(&runSaveName, "save", "", "Save the timer state under this name on exit")
	runCmd.Flags().StringVar(&runResumeID, "resume", "", "Resume from a saved state id")
}

func runSpeechTimer(cmd *cobra.Command, args []string) error {
	manager := formats.NewManager(cfg.FormatsDir, nil)

	df, parseErrs, err := manager.Load(args[0])
	if err != nil {
		return err
	}
	for _, e := range parseErrs {
		logger.Warn("format has errors", zap.String("error", e))
	}

	if runSpeech < 1 || runSpeech > df.SpeechCount() {
		return fmt.Errorf("format %q has %d speeches, cannot time speech %d",
			df.Name(), df.SpeechCount(), runSpeech)
	}
	speech := df.Speech(runSpeech - 1)

	alerter := alerts.NewLogAlerter(logger, cfg.SilentMode)
	spt := timer.NewSpeechTimer(alerter, logger)
	spt.SetOvertimeBells(cfg.OvertimeBell.FirstSeconds, cfg.OvertimeBell.PeriodSeconds)

	if err := spt.Load(speech.Format, 0); err != nil {
		return err
	}

	if runResumeID != "" {
		if err := restoreTimer(spt, runResumeID); err != nil {
			return err
		}
	}

	fmt.Printf("%s - %s (%s)\n", df.Name(), speech.Name, formatClock(speech.Format.Length()))
	fmt.Println("Enter: start/stop, r: reset, q: quit")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	inputCh := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			inputCh <- strings.TrimSpace(scanner.Text())
		}
		close(inputCh)
	}()

	display := time.NewTicker(time.Second)
	defer display.Stop()

	for {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal")
			spt.Stop()
			return saveTimer(spt, speech)

		case line, ok := <-inputCh:
			if !ok {
				spt.Stop()
				return saveTimer(spt, speech)
			}
			switch line {
			case "q":
				spt.Stop()
				return saveTimer(spt, speech)
			case "r":
				spt.Reset()
				printSnapshot(spt.Snapshot())
			default:
				if spt.State() == timer.Running {
					spt.Stop()
				} else {
					spt.Start()
				}
				printSnapshot(spt.Snapshot())
			}

		case <-display.C:
			if spt.State() == timer.Running || spt.State() == timer.StoppedByBell {
				printSnapshot(spt.Snapshot())
			}
		}
	}
}

// restoreTimer loads a saved bundle from the database into the timer.
func restoreTimer(spt *timer.SpeechTimer, id string) error {
	db, err := store.NewSavedStateStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	bundle, err := db.LoadBundle(id)
	if err != nil {
		return fmt.Errorf("failed to load saved state %q: %w", id, err)
	}

	spt.RestoreState("timer", bundle)
	logger.Info("resumed saved state",
		zap.String("id", id),
		zap.Int64("seconds", spt.CurrentTime()))
	return nil
}

// saveTimer persists the timer state when --save was given.
func saveTimer(spt *timer.SpeechTimer, speech format.Speech) error {
	if runSaveName == "" {
		return nil
	}

	db, err := store.NewSavedStateStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.Create(runSaveName)
	if err != nil {
		return err
	}

	bundle := store.NewMemoryBundle()
	spt.SaveState("timer", bundle)
	if err := db.SaveBundle(id, bundle); err != nil {
		return err
	}

	fmt.Printf("saved %q as %s\n", runSaveName, id)
	return nil
}

func printSnapshot(s timer.Snapshot) {
	shown := s.CurrentTime
	if s.CountDirection == format.CountDown {
		shown = s.SpeechLength - s.CurrentTime
	}

	line := fmt.Sprintf("[%s] %s  %s", s.State, formatClock(shown), s.PeriodDescription)
	if s.NextBellTime != timer.NoBellTime {
		line += fmt.Sprintf("  (next bell %s)", formatClock(s.NextBellTime))
	}
	fmt.Println(line)
}

// formatClock renders seconds as M:SS, tolerating negative values for
// count-down displays past the speech length.
func formatClock(seconds int64) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%d:%02d", sign, seconds/60, seconds%60)
}
