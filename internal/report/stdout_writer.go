// Writer implementation printing verification results to STDOUT
package report

import (
	"encoding/json"
	"fmt"

	"skyverify/internal/verify"
)

// StdoutWriter prints verification results as JSON to STDOUT.
type StdoutWriter struct{}

// WriteResult outputs one result as a single JSON document.
func (w *StdoutWriter) WriteResult(r *verify.Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// WriteConflictRows prints flattened conflict rows as JSON lines.
func (w *StdoutWriter) WriteConflictRows(rows []ConflictRow) error {
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}
	return nil
}
