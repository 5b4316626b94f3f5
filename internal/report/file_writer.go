package report

import (
	"encoding/json"
	"os"

	"skyverify/internal/verify"
)

// FileWriter appends verification results and conflict rows to JSONL
// files. rowsPath may be empty to skip the per-conflict log.
type FileWriter struct {
	resultFile *os.File
	rowsFile   *os.File
	resultEnc  *json.Encoder
	rowsEnc    *json.Encoder
}

// NewFileWriter creates a FileWriter writing results to resultPath and,
// when rowsPath is non-empty, flattened conflict rows to rowsPath.
func NewFileWriter(resultPath, rowsPath string) (*FileWriter, error) {
	rf, err := os.Create(resultPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{resultFile: rf, resultEnc: json.NewEncoder(rf)}
	if rowsPath != "" {
		cf, err := os.Create(rowsPath)
		if err != nil {
			rf.Close()
			return nil, err
		}
		fw.rowsFile = cf
		fw.rowsEnc = json.NewEncoder(cf)
	}
	return fw, nil
}

// WriteResult logs a single verification result.
func (f *FileWriter) WriteResult(r *verify.Result) error {
	return f.resultEnc.Encode(r)
}

// WriteConflictRows logs flattened conflict rows, if enabled.
func (f *FileWriter) WriteConflictRows(rows []ConflictRow) error {
	if f.rowsEnc == nil {
		return nil
	}
	for _, row := range rows {
		if err := f.rowsEnc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.resultFile != nil {
		if e := f.resultFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.rowsFile != nil {
		if e := f.rowsFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
