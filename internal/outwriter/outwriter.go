// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/rusalad/rusalad/internal/contract"
	"github.com/rusalad/rusalad/internal/parquet"
	"github.com/rusalad/rusalad/schema"
)

// WriteHistoryResults outputs a test history, dispatching based on the output format configured.
func WriteHistoryResults(h *schema.HistoryAggregate, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteHistoryJSON(w, h)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryCSV(w, h)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteHistoryRecords(w, parquet.RecordsFromRows(h.Rows()))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(h, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// WriteHistoryJSON writes the history in its JSON shape, indented by four spaces.
func WriteHistoryJSON(w io.Writer, h *schema.HistoryAggregate) error {
	return writeJSON(w, h)
}

// WriteTimedText writes rendered timed-text markup to the configured destination.
func WriteTimedText(markup string, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		_, err := io.WriteString(w, markup)
		return err
	}, "Wrote timed text")
}

// newestFirst returns the run identifiers of h from newest to oldest.
func newestFirst(h *schema.HistoryAggregate) []int {
	runs := slices.Clone(h.RunIDs)
	slices.Reverse(runs)
	return runs
}

// writeHistoryCSV writes one record per scenario with a status column per run, newest first.
func writeHistoryCSV(w io.Writer, h *schema.HistoryAggregate) error {
	runs := newestFirst(h)
	header := []string{"feature", "scenario"}
	for _, id := range runs {
		header = append(header, "run_"+schema.RunKey(id))
	}
	header = append(header, "trend", "pass_rate")

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range h.Summarize() {
			rec := []string{s.Feature, s.Scenario}
			for _, id := range runs {
				st, _ := h.StatusFor(s.Feature, s.Scenario, id)
				rec = append(rec, string(st))
			}
			rec = append(rec, s.Label, strconv.FormatFloat(s.PassRate, 'f', 1, 64))
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeHistoryTable generates and writes the human-readable history matrix.
func writeHistoryTable(h *schema.HistoryAggregate, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	runs := newestFirst(h)
	nameWidth := GetMaxTableNameWidth(cfg, len(runs))
	label := contract.GetPlainLabel
	if cfg.UseColors {
		label = contract.GetColorLabel
	}

	table := tablewriter.NewWriter(writer)

	// Header auto-format would split "#4" into "# 4".
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Header.Formatting.AutoFormat = tw.Off
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	headers := []string{"RANK", "FEATURE", "SCENARIO"}
	for _, id := range runs {
		headers = append(headers, "#"+schema.RunKey(id))
	}
	headers = append(headers, "TREND")
	table.Header(headers)

	var data [][]string
	summaries := h.Summarize()
	for _, s := range summaries {
		row := []string{
			strconv.Itoa(s.Rank),
			contract.TruncateName(s.Feature, nameWidth),
			contract.TruncateName(s.Scenario, nameWidth),
		}
		for _, id := range runs {
			st, ok := h.StatusFor(s.Feature, s.Scenario, id)
			row = append(row, label(st, ok))
		}
		row = append(row, s.Label)
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing %d scenarios in %d features over %d runs", len(summaries), len(h.FeatureNames), len(runs)); err != nil {
		return err
	}
	if len(runs) > 0 {
		if _, err := fmt.Fprintf(writer, " (latest #%d: %d failed)", runs[0], failedIn(h, runs[0])); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "\nHistory built in %v. Source: %s\n", duration, cfg.Source); err != nil {
		return err
	}
	return nil
}

// failedIn counts the scenarios recorded as failed in a run.
func failedIn(h *schema.HistoryAggregate, runID int) int {
	n := 0
	for _, row := range h.Rows() {
		if row.RunID == runID && row.Status == schema.FailedStatus {
			n++
		}
	}
	return n
}
