package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"profitScope/internal/model"
)

// FileSink writes analysis artifacts as flat JSON documents.
type FileSink struct {
	analysisPath string
	hashesPath   string
	mu           sync.Mutex
}

func NewFileSink(analysisPath, hashesPath string) *FileSink {
	return &FileSink{analysisPath: analysisPath, hashesPath: hashesPath}
}

// PutAnalysis writes the serialized daily analysis document.
func (s *FileSink) PutAnalysis(analysis model.DailyAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.analysisPath, analysis)
}

// PutHashList writes the ordered transaction hash collection.
func (s *FileSink) PutHashList(hashes []string) error {
	if hashes == nil {
		hashes = []string{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.hashesPath, hashes)
}

// writeJSON writes atomically: tmp file first, then rename into place.
func writeJSON(path string, value interface{}) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write report tmp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename report: %w", err)
	}

	return nil
}
