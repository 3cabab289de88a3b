// Package storage persists the planning state as a JSON document and
// handles import and export of plan files.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/username/urlaubsplaner/internal/planner"
	"go.uber.org/zap"
)

// Store reads and writes the plan file
type Store struct {
	filePath string
	logger   *zap.Logger
}

// NewStore creates a store bound to one plan file
func NewStore(filePath string, logger *zap.Logger) *Store {
	return &Store{
		filePath: filePath,
		logger:   logger,
	}
}

// Load reads the plan file. A missing file is not an error: the second
// return value reports whether a document was found. A corrupt file is
// treated like a missing one, with a warning.
func (s *Store) Load() (planner.PlanData, bool, error) {
	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return planner.PlanData{}, false, nil
		}
		return planner.PlanData{}, false, fmt.Errorf("failed to read plan file: %w", err)
	}

	var data planner.PlanData
	if err := json.Unmarshal(raw, &data); err != nil {
		s.logger.Warn("Plan file is corrupt, starting fresh",
			zap.String("file", s.filePath),
			zap.Error(err))
		return planner.PlanData{}, false, nil
	}

	s.logger.Info("Plan loaded",
		zap.String("file", s.filePath),
		zap.Int("year", data.Year),
		zap.Int("vacation_days", len(data.VacationDays)))

	return data, true, nil
}

// Save writes the plan file, stamping lastUpdated
func (s *Store) Save(data planner.PlanData) error {
	data.LastUpdated = time.Now().Format(time.RFC3339)

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	if err := os.WriteFile(s.filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}

	s.logger.Debug("Plan saved", zap.String("file", s.filePath))
	return nil
}

// Export writes the plan to an arbitrary path, for hand-off to another
// installation
func Export(path string, data planner.PlanData) error {
	data.LastUpdated = time.Now().Format(time.RFC3339)

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// Import reads a plan document from an arbitrary path. Unlike Load, a
// missing or unreadable file is an error: the user named it explicitly.
func Import(path string) (planner.PlanData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return planner.PlanData{}, fmt.Errorf("failed to read import file: %w", err)
	}

	var data planner.PlanData
	if err := json.Unmarshal(raw, &data); err != nil {
		return planner.PlanData{}, fmt.Errorf("failed to parse import file: %w", err)
	}
	return data, nil
}
