package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"fathomsync/internal/coco"
	"fathomsync/internal/transfer"
)

// writeSummary reports a finished run. Terminals get a table; pipes get a
// single parseable line. Failures are always listed so a scripted run's log
// explains its own exit.
func writeSummary(out io.Writer, deliveredLabel string, summary transfer.Summary, useTable bool) {
	if useTable {
		fmt.Fprintln(out, renderStatus([]statusRow{
			{deliveredLabel, strconv.Itoa(summary.Delivered)},
			{"Skipped", strconv.Itoa(summary.Skipped)},
			{"Failed", strconv.Itoa(summary.Failed)},
			{"Total", strconv.Itoa(summary.Total())},
		}))
	} else {
		fmt.Fprintf(out, "%s=%d skipped=%d failed=%d total=%d\n",
			strings.ToLower(deliveredLabel), summary.Delivered, summary.Skipped, summary.Failed, summary.Total())
	}

	for _, res := range summary.Results {
		if res.Outcome == transfer.OutcomeFailed && res.Err != nil {
			fmt.Fprintf(out, "failed %s: %v\n", res.Task.ID, res.Err)
		}
	}
}

// writeLabelBreakdown lists how many crops each category now has on disk,
// counting delivered and previously-present alike. Labels render in display
// form ("bathochordaeus charon" -> "Bathochordaeus Charon").
func writeLabelBreakdown(out io.Writer, summary transfer.Summary, useTable bool) {
	counts := map[string]int{}
	for _, res := range summary.Results {
		if res.Outcome == transfer.OutcomeFailed || res.Task.Label == "" {
			continue
		}
		counts[coco.DisplayName(res.Task.Label)]++
	}
	if len(counts) == 0 {
		return
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	if useTable {
		rows := make([]statusRow, 0, len(labels))
		for _, label := range labels {
			rows = append(rows, statusRow{label, strconv.Itoa(counts[label])})
		}
		fmt.Fprintln(out, renderStatus(rows))
		return
	}
	for _, label := range labels {
		fmt.Fprintf(out, "label %s: %d\n", label, counts[label])
	}
}
