package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/signalnine/hyperdrome/internal/result"
)

type Summary struct {
	Trials       int               `json:"trials"`
	Completed    int               `json:"completed"`
	Failed       int               `json:"failed"`
	TimedOut     int               `json:"timed_out"`
	BestTrial    string            `json:"best_trial"`
	BestValue    float64           `json:"best_value"`
	BestParams   map[string]string `json:"best_params"`
	MeanValue    float64           `json:"mean_value"`
	MeanDuration float64           `json:"mean_duration_s"`
}

// Generate reads a run directory's trial records and produces a sweep
// summary. Direction decides which completed value counts as best.
func Generate(runDir, direction, format string, w io.Writer) error {
	metas, err := collectMetas(runDir)
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		return fmt.Errorf("no trial records found in %s", runDir)
	}

	summary := aggregate(metas, direction)

	switch format {
	case "markdown":
		return writeMarkdown(summary, metas, w)
	case "json":
		return writeJSON(summary, w)
	default:
		return writeTable(summary, metas, w)
	}
}

func collectMetas(runDir string) ([]*result.TrialMeta, error) {
	var metas []*result.TrialMeta
	err := filepath.Walk(runDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Name() == "meta.json" {
			meta, err := result.ReadTrialMeta(path)
			if err != nil {
				return nil
			}
			metas = append(metas, meta)
		}
		return nil
	})
	sort.Slice(metas, func(i, j int) bool {
		a, aerr := strconv.Atoi(metas[i].Trial)
		b, berr := strconv.Atoi(metas[j].Trial)
		if aerr == nil && berr == nil {
			return a < b
		}
		return metas[i].Trial < metas[j].Trial
	})
	return metas, err
}

func aggregate(metas []*result.TrialMeta, direction string) Summary {
	s := Summary{Trials: len(metas), BestValue: math.Inf(1)}
	if direction == "maximize" {
		s.BestValue = math.Inf(-1)
	}
	var sum, durations float64
	for _, m := range metas {
		durations += float64(m.DurationS)
		switch m.State {
		case "completed":
			s.Completed++
			sum += m.Value
			better := m.Value < s.BestValue
			if direction == "maximize" {
				better = m.Value > s.BestValue
			}
			if better {
				s.BestValue = m.Value
				s.BestTrial = m.Trial
				s.BestParams = m.Params
			}
		case "timeout":
			s.TimedOut++
		default:
			s.Failed++
		}
	}
	if s.Completed > 0 {
		s.MeanValue = sum / float64(s.Completed)
	}
	s.MeanDuration = durations / float64(len(metas))
	return s
}

func formatParams(params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+params[name])
	}
	return strings.Join(pairs, " ")
}

func writeTable(s Summary, metas []*result.TrialMeta, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TRIAL\tSTATE\tVALUE\tDURATION\tPARAMS")
	fmt.Fprintln(tw, strings.Repeat("-", 72))
	for _, m := range metas {
		value := "-"
		if m.State == "completed" {
			value = fmt.Sprintf("%.6g", m.Value)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%ds\t%s\n", m.Trial, m.State, value, m.DurationS, formatParams(m.Params))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d/%d trials completed (%d failed, %d timed out)\n", s.Completed, s.Trials, s.Failed, s.TimedOut)
	if s.Completed > 0 {
		fmt.Fprintf(w, "best: trial %s = %.6g (%s)\n", s.BestTrial, s.BestValue, formatParams(s.BestParams))
		fmt.Fprintf(w, "mean value: %.6g, mean duration: %.0fs\n", s.MeanValue, s.MeanDuration)
	}
	return nil
}

func writeMarkdown(s Summary, metas []*result.TrialMeta, w io.Writer) error {
	fmt.Fprintln(w, "| Trial | State | Value | Duration | Params |")
	fmt.Fprintln(w, "|---|---|---|---|---|")
	for _, m := range metas {
		value := "-"
		if m.State == "completed" {
			value = fmt.Sprintf("%.6g", m.Value)
		}
		fmt.Fprintf(w, "| %s | %s | %s | %ds | %s |\n", m.Trial, m.State, value, m.DurationS, formatParams(m.Params))
	}
	if s.Completed > 0 {
		fmt.Fprintf(w, "\nBest: trial %s = %.6g (%s)\n", s.BestTrial, s.BestValue, formatParams(s.BestParams))
	}
	return nil
}

func writeJSON(s Summary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
