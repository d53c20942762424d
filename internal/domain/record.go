package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecordStatus is the terminal status of one (URL, format) history record
type RecordStatus string

const (
	RecordOK      RecordStatus = "ok"
	RecordFailed  RecordStatus = "failed"
	RecordInvalid RecordStatus = "invalid"
)

// DownloadRecord is one row of the local download history
type DownloadRecord struct {
	ID         string       `json:"id" gorm:"primaryKey"`
	URL        string       `json:"url" gorm:"not null;index"`
	Format     ExportFormat `json:"format"`
	Status     RecordStatus `json:"status" gorm:"not null;index"`
	Credential string       `json:"credential,omitempty"`
	Error      string       `json:"error,omitempty" gorm:"type:text"`
	FilePath   string       `json:"file_path,omitempty"`
	CreatedAt  time.Time    `json:"created_at" gorm:"autoCreateTime"`
}

// NewRecordFromOutcome builds a history record for a terminal per-format
// outcome
func NewRecordFromOutcome(url string, outcome FormatOutcome) *DownloadRecord {
	record := &DownloadRecord{
		ID:         uuid.New().String(),
		URL:        url,
		Format:     outcome.Format,
		Status:     RecordFailed,
		Credential: outcome.Credential.String(),
		Error:      outcome.Error,
		CreatedAt:  time.Now(),
	}
	if outcome.OK {
		record.Status = RecordOK
		if len(outcome.ProducedPaths) > 0 {
			record.FilePath = outcome.ProducedPaths[0]
		}
	}
	return record
}

// NewInvalidRecord builds a history record for a URL rejected by the
// pre-check
func NewInvalidRecord(url, reason string) *DownloadRecord {
	return &DownloadRecord{
		ID:        uuid.New().String(),
		URL:       url,
		Status:    RecordInvalid,
		Error:     reason,
		CreatedAt: time.Now(),
	}
}

// HistoryStats aggregates record counts by status
type HistoryStats struct {
	Total   int64 `json:"total"`
	OK      int64 `json:"ok"`
	Failed  int64 `json:"failed"`
	Invalid int64 `json:"invalid"`
}
