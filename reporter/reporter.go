// Package reporter renders search progress and rotation replays to a
// log/console sink. It owns no search logic; it only formats the values
// dp and simulator hand it.
package reporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/niceyeti/dlgrind/action"
	"github.com/niceyeti/dlgrind/adventurer"
	"github.com/niceyeti/dlgrind/dp"
	"github.com/niceyeti/dlgrind/simulator"
)

// New builds a logrus.Logger writing structured, timestamped text lines
// to w; this is the ambient logger every CLI entry point should pass
// through, so a --serve run and a plain batch run log identically.
func New(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}

// FormatMilestone renders a search improvement in the fixed, parseable
// form the output stream contract requires:
//
//	<action-string-pretty> => <damage> dmg in <f> frames
func FormatMilestone(m dp.Milestone) string {
	return fmt.Sprintf("%s => %g dmg in %d frames", m.Sequence.String(), m.Damage, m.Frame)
}

// PrintMilestone writes one search improvement to w in the exact
// output-stream format, independent of any ambient logger: this line is
// the program's contract with callers that parse its stdout, not a log
// message, so it is never routed through logrus formatting.
func PrintMilestone(w io.Writer, m dp.Milestone) {
	fmt.Fprintln(w, FormatMilestone(m))
}

// PrintFPM writes the throughput diagnostic line to w in the fixed form
// "fpm: <frames per minute>", emitted roughly once per wall-clock minute
// while a search runs.
func PrintFPM(w io.Writer, fpm float64) {
	fmt.Fprintf(w, "fpm: %g\n", fpm)
}

// LogSearchResult writes the final outcome of a bounded search.
func LogSearchResult(log *logrus.Logger, r dp.Result) {
	log.WithFields(logrus.Fields{
		"frame":    r.Frame,
		"damage":   r.Damage,
		"sequence": r.Sequence.String(),
	}).Info("search complete")
}

// ParseRotation parses a whitespace-separated rotation string into a
// flat action list. Tokens are "x", "fs", "s1".."s3", or "cN"/"cNfs"
// where N is a basic-combo run length (e.g. "c3fs" expands to three X
// inputs followed by an FS).
func ParseRotation(s string) ([]action.Action, error) {
	var out []action.Action
	for _, tok := range strings.Fields(s) {
		switch tok {
		case "x":
			out = append(out, action.X)
			continue
		case "fs":
			out = append(out, action.FS)
			continue
		case "s1":
			out = append(out, action.S1)
			continue
		case "s2":
			out = append(out, action.S2)
			continue
		case "s3":
			out = append(out, action.S3)
			continue
		}
		if !strings.HasPrefix(tok, "c") {
			return nil, fmt.Errorf("reporter: unrecognized rotation token %q", tok)
		}
		body := tok[1:]
		withFS := strings.HasSuffix(body, "fs")
		if withFS {
			body = body[:len(body)-2]
		}
		count, err := strconv.ParseUint(body, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("reporter: unrecognized rotation token %q: %w", tok, err)
		}
		for i := uint64(0); i < count; i++ {
			out = append(out, action.X)
		}
		if withFS {
			out = append(out, action.FS)
		}
	}
	return out, nil
}

// ReplayStep is one step of a rotation replay, recorded after Replay
// applies it.
type ReplayStep struct {
	Action       action.Action
	FramesSoFar  uint32
	SecondsSoFar float64
	State        adventurer.State
	Damage       float64
}

// Replay applies rotation in order against sim starting from the idle
// state, returning a step-by-step trace whose last step carries the total
// frame count and damage. An illegal step truncates the rotation and
// reports it in err.
func Replay(sim *simulator.Simulator, rotation []action.Action) ([]ReplayStep, error) {
	st := adventurer.State{}
	var frames uint32
	var totalDamage float64
	steps := make([]ReplayStep, 0, len(rotation))

	for i, a := range rotation {
		next, stepFrames, dmg, ok := sim.ApplyAction(st, a)
		if !ok {
			return steps, fmt.Errorf("reporter: action %d (%s) illegal from state %+v", i, a, st)
		}
		frames += stepFrames
		totalDamage += dmg
		st = next
		steps = append(steps, ReplayStep{
			Action:       a,
			FramesSoFar:  frames,
			SecondsSoFar: float64(frames) / 60,
			State:        st,
			Damage:       totalDamage,
		})
	}

	return steps, nil
}

// LogReplay writes one line per replay step and a final totals line,
// mirroring dlgrind-rotation's per-action trace.
func LogReplay(log *logrus.Logger, steps []ReplayStep) {
	for _, s := range steps {
		log.WithFields(logrus.Fields{
			"action":  s.Action,
			"frames":  s.FramesSoFar,
			"seconds": s.SecondsSoFar,
			"after":   s.State.After,
			"damage":  s.Damage,
		}).Info("step")
	}
	if len(steps) == 0 {
		return
	}
	last := steps[len(steps)-1]
	log.WithFields(logrus.Fields{
		"totalFrames":  last.FramesSoFar,
		"totalSeconds": last.SecondsSoFar,
		"totalDamage":  last.Damage,
	}).Info("replay complete")
}
