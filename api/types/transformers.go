package types

import (
	"github.com/killallgit/rgain-analyzer/internal/models"
)

// ToAnalysis converts a stored record to its API view
func ToAnalysis(record *models.AnalysisRecord) *Analysis {
	if record == nil {
		return nil
	}
	return &Analysis{
		ID:         record.UUID,
		FilePath:   record.FilePath,
		Profile:    record.Profile,
		Executable: record.Executable,
		Status:     string(record.Status),
		ReplayGain: record.ReplayGain,
		ExitCode:   record.ExitCode,
		Diagnostic: record.Diagnostic,
		Metadata:   record.Metadata,
		DurationMS: record.DurationMS,
		CreatedAt:  record.CreatedAt,
	}
}

// ToAnalyses converts a page of stored records
func ToAnalyses(records []models.AnalysisRecord) []Analysis {
	out := make([]Analysis, 0, len(records))
	for i := range records {
		out = append(out, *ToAnalysis(&records[i]))
	}
	return out
}
