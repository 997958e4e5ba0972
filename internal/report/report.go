// Package report renders analysis results as plain text for the console.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bricklab/ratelens/internal/analysis"
)

// Write renders one dataset's sampling-rate report to w.
func Write(w io.Writer, res *analysis.Result) error {
	fmt.Fprintf(w, "=== %s sampling rate ===\n", res.Dataset)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Samples\t%d\n", res.Stats.SampleCount)
	fmt.Fprintf(tw, "Duration\t%.2f s\n", res.Stats.DurationSeconds)
	fmt.Fprintf(tw, "Time unit\t%s%s\n", res.Norm.Unit, assumedSuffix(res))
	fmt.Fprintf(tw, "Average rate\t%.2f Hz\n", res.Stats.AverageHz)
	fmt.Fprintf(tw, "Median rate\t%.2f Hz\n", res.Stats.MedianHz)
	fmt.Fprintf(tw, "Std deviation\t%.2f Hz\n", res.Stats.StdDevHz)
	fmt.Fprintf(tw, "Min rate\t%.2f Hz\n", res.Stats.MinHz)
	fmt.Fprintf(tw, "Max rate\t%.2f Hz\n", res.Stats.MaxHz)
	if res.Stats.DegenerateIntervals > 0 {
		fmt.Fprintf(tw, "Degenerate intervals\t%d (excluded)\n", res.Stats.DegenerateIntervals)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if res.SegmentationSkipped {
		fmt.Fprintln(w, "Building periods: skipped (misaligned auxiliary columns)")
	}
	if len(res.Intervals) > 0 {
		fmt.Fprintf(w, "Building periods (%d):\n", len(res.Intervals))
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, iv := range res.Intervals {
			label := iv.Label
			if label == "" {
				label = "(unlabeled)"
			}
			fmt.Fprintf(tw, "  %s\t%.2f s\t-> %.2f s\n", label, iv.StartSeconds, iv.EndSeconds)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	return nil
}

func assumedSuffix(res *analysis.Result) string {
	if res.Norm.UnitAssumed {
		return " (assumed nanoseconds)"
	}
	return ""
}
