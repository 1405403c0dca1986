// Package audit persists the import event stream as JSONL: one record
// per event, one timestamped log file per run under the destination
// root.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"figvault/internal/domain"
	"figvault/internal/ports"
)

const logBasenamePrefix = "figvault_import"

// record is the on-disk schema. Field names are part of the audit
// format and do not change.
type record struct {
	TS                 string `json:"ts"`
	Input              string `json:"input"`
	InputHash          string `json:"input_hash,omitempty"`
	Dest               string `json:"dest,omitempty"`
	Method             string `json:"method"`
	Action             string `json:"action"`
	ExistingSameName   bool   `json:"existing_same_name"`
	ExistingSameDigest bool   `json:"existing_same_content"`
	Reason             string `json:"reason,omitempty"`
}

// JSONLSink implements ports.EventSink, appending one JSON line per
// event in emission order.
type JSONLSink struct {
	file *os.File
	enc  *json.Encoder
	path string
}

// Ensure JSONLSink implements the port
var _ ports.EventSink = (*JSONLSink)(nil)

// NewJSONLSink creates the run's log file under dir, named with the
// run's start timestamp.
func NewJSONLSink(dir string) (*JSONLSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.log.jsonl", logBasenamePrefix, time.Now().Format("20060102_150405")))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}
	return &JSONLSink{file: f, enc: json.NewEncoder(f), path: path}, nil
}

// Path returns the log file location, echoed to the user at run start.
func (s *JSONLSink) Path() string {
	return s.path
}

// Emit appends one record.
func (s *JSONLSink) Emit(event domain.ImportEvent) error {
	rec := record{
		TS:                 event.Time.Format(time.RFC3339),
		Input:              event.Source,
		Dest:               event.Dest,
		Method:             event.Method.String(),
		Action:             string(event.Outcome),
		ExistingSameName:   event.NameConflict,
		ExistingSameDigest: event.ContentDuplicate,
		Reason:             event.Reason,
	}
	if event.Digest != "" {
		rec.InputHash = "blake3:" + event.Digest
	}
	return s.enc.Encode(rec)
}

// Close flushes and closes the log file.
func (s *JSONLSink) Close() error {
	if err := s.file.Sync(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
