package main

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/alacrity-engine/sheet-slicer/internal/pipeline"
)

// BatchMeta is the batch report
// written to the YAML file.
type BatchMeta struct {
	BatchID string        `yaml:"batchID"`
	Sheets  []SheetMeta   `yaml:"sheets"`
	Failed  []FailureMeta `yaml:"failed,omitempty"`
}

// SheetMeta is what happened
// to a single data file.
type SheetMeta struct {
	Data             string   `yaml:"data"`
	Sliced           []string `yaml:"sliced,omitempty"`
	Changed          []string `yaml:"changed,omitempty"`
	SecondaryChanged bool     `yaml:"secondaryChanged"`
	Clips            []string `yaml:"clips,omitempty"`
	Unrecognized     []string `yaml:"unrecognized,omitempty"`
	Error            string   `yaml:"error,omitempty"`
}

// FailureMeta is an asset no
// data file could be found for.
type FailureMeta struct {
	Asset string `yaml:"asset"`
	Error string `yaml:"error"`
}

// NewBatchMeta builds the report metadata.
func NewBatchMeta(report *pipeline.Report) *BatchMeta {
	meta := &BatchMeta{
		BatchID: report.BatchID.String(),
		Sheets:  make([]SheetMeta, 0, len(report.Results)),
	}

	for _, result := range report.Results {
		sheetMeta := SheetMeta{
			Data:             result.Description,
			Sliced:           result.Sliced,
			Changed:          result.Changed,
			SecondaryChanged: result.SecondaryChanged,
			Clips:            result.Clips,
			Unrecognized:     result.Unrecognized,
		}

		if result.Err != nil {
			sheetMeta.Error = result.Err.Error()
		}

		meta.Sheets = append(meta.Sheets, sheetMeta)
	}

	for _, failure := range report.Failed {
		meta.Failed = append(meta.Failed, FailureMeta{
			Asset: failure.Asset,
			Error: failure.Err.Error(),
		})
	}

	return meta
}

// ReadBatchMeta parses a batch report.
func ReadBatchMeta(contents []byte) (*BatchMeta, error) {
	meta := &BatchMeta{}
	err := yaml.Unmarshal(contents, meta)

	if err != nil {
		return nil, err
	}

	return meta, nil
}

// Write stores the report at path.
func (m *BatchMeta) Write(path string) error {
	data, err := yaml.Marshal(m)

	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0666)
}
