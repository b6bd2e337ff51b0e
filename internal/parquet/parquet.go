// Package parquet provides data structures and functions for exporting test
// history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/rusalad/rusalad/schema"
)

// HistoryRecord is one (run, feature, scenario) status cell of a test history.
type HistoryRecord struct {
	// RunID identifies the run the status was recorded in
	RunID int64 `parquet:"run_id,snappy"`

	// Feature is the feature name
	Feature string `parquet:"feature,snappy,dict"`

	// FeatureIndex is the position of the feature in the history's feature order
	FeatureIndex int32 `parquet:"feature_index,snappy"`

	// Scenario is the scenario name
	Scenario string `parquet:"scenario,snappy"`

	// ScenarioIndex is the position of the scenario within its feature
	ScenarioIndex int32 `parquet:"scenario_index,snappy"`

	// Status is the scenario outcome in the run
	Status string `parquet:"status,snappy,dict"`
}

// RecordsFromRows converts flattened history rows into Parquet records.
func RecordsFromRows(rows []schema.HistoryRow) []HistoryRecord {
	records := make([]HistoryRecord, len(rows))
	for i, r := range rows {
		records[i] = HistoryRecord{
			RunID:         int64(r.RunID),
			Feature:       r.Feature,
			FeatureIndex:  int32(r.FeatureIndex),
			Scenario:      r.Scenario,
			ScenarioIndex: int32(r.ScenarioIndex),
			Status:        string(r.Status),
		}
	}
	return records
}

// WriteHistoryRecords writes records to w as a Parquet file.
func WriteHistoryRecords(w io.Writer, data []HistoryRecord) error {
	// The schema is derived from the HistoryRecord struct tags
	writer := parquet.NewGenericWriter[HistoryRecord](w)

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// WriteHistoryParquet writes records to a Parquet file at outputPath.
func WriteHistoryParquet(data []HistoryRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteHistoryRecords(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// ReadHistoryParquet reads all records from a Parquet file written by WriteHistoryParquet.
func ReadHistoryParquet(inputPath string) ([]HistoryRecord, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[HistoryRecord](file)
	defer func() { _ = reader.Close() }()

	records := make([]HistoryRecord, reader.NumRows())
	n, err := reader.Read(records)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return records[:n], nil
}
