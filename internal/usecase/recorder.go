package usecase

import (
	"time"

	"github.com/ruokahinta/backend/internal/domain"
)

// Catalog query outcomes reported to a Recorder
const (
	QueryOutcomeOK      = "ok"
	QueryOutcomeEmpty   = "empty"
	QueryOutcomeError   = "error"
	QueryOutcomeTimeout = "timeout"
)

// Recorder receives resolution telemetry
type Recorder interface {
	ObserveCatalogQuery(outcome string, duration time.Duration)
	ObserveResolution(reason domain.Reason, terms int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveCatalogQuery(string, time.Duration) {}

func (nopRecorder) ObserveResolution(domain.Reason, int) {}
