package report

import "skyverify/internal/verify"

// MultiWriter fans a result out to several sinks, returning the first
// error after attempting all of them.
type MultiWriter struct {
	writers []ResultWriter
}

// NewMultiWriter combines the given writers.
func NewMultiWriter(writers ...ResultWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteResult delivers the result to every sink.
func (m *MultiWriter) WriteResult(r *verify.Result) error {
	var firstErr error
	for _, w := range m.writers {
		if err := w.WriteResult(r); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WriteConflictRows delivers rows to every sink that accepts them.
func (m *MultiWriter) WriteConflictRows(rows []ConflictRow) error {
	var firstErr error
	for _, w := range m.writers {
		if rw, ok := w.(conflictRowWriter); ok {
			if err := rw.WriteConflictRows(rows); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
