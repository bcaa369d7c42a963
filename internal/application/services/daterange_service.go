package services

import (
	"sync"
	"time"

	"github.com/KinoWerk/cinedash-go/internal/domain/daterange"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
)

// DateRangeService owns the active report interval. Pure state transitions,
// no network or persistence: the range is recomputed from "now" on demand
// and consumed synchronously by the report views.
type DateRangeService struct {
	mu      sync.RWMutex
	current daterange.Range
	logger  *logging.ChanneledLogger
	now     func() time.Time
}

// NewDateRangeService creates the selector, initialized to today.
func NewDateRangeService(logger *logging.ChanneledLogger) *DateRangeService {
	s := &DateRangeService{logger: logger, now: time.Now}
	s.current, _ = daterange.ForPreset(daterange.PresetHeute, s.now())
	return s
}

// SetPreset recomputes both bounds from now per the preset's calendar rule.
func (s *DateRangeService) SetPreset(preset daterange.Preset) error {
	r, err := daterange.ForPreset(preset, s.now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = r
	s.mu.Unlock()

	s.logger.State().Info("Date range preset selected", "preset", string(preset),
		"from", r.From.Format("2006-01-02"), "to", r.To.Format("2006-01-02"))
	return nil
}

// SetRange stores an explicit interval, normalized to day boundaries. An
// empty preset tags the range as custom.
func (s *DateRangeService) SetRange(from, to time.Time, preset daterange.Preset) {
	r := daterange.New(from, to, preset)

	s.mu.Lock()
	s.current = r
	s.mu.Unlock()

	s.logger.State().Info("Date range selected", "preset", string(r.Preset),
		"from", r.From.Format("2006-01-02"), "to", r.To.Format("2006-01-02"))
}

// Current returns the active range.
func (s *DateRangeService) Current() daterange.Range {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
