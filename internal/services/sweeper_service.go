// filepath: internal/services/sweeper_service.go
package services

import (
	"time"

	"filedrop/internal/logging"
	"filedrop/internal/metrics"
)

// SweepInterval is the time between expiry sweeps.
const SweepInterval = 15 * time.Minute

var _ SweeperService = (*sweeperService)(nil)

// sweeperService runs the background worker that deletes files past
// their expiry.
type sweeperService struct {
	Files  FileService
	ticker *time.Ticker
	stopCh chan struct{}
}

// NewSweeperService creates a new SweeperService.
func NewSweeperService(files FileService) *sweeperService {
	return &sweeperService{
		Files:  files,
		stopCh: make(chan struct{}),
	}
}

// Start kicks off the background expiry sweep.
func (s *sweeperService) Start() {
	logging.Log.Info("Starting background expiry sweeper.")
	s.ticker = time.NewTicker(SweepInterval)

	go func() {
		// Sweep once on startup, then on every tick.
		s.sweep()
		for {
			select {
			case <-s.ticker.C:
				s.sweep()
			case <-s.stopCh:
				s.ticker.Stop()
				return
			}
		}
	}()
}

// Stop terminates the background sweeper.
func (s *sweeperService) Stop() {
	logging.Log.Info("Stopping background expiry sweeper.")
	close(s.stopCh)
}

func (s *sweeperService) sweep() {
	removed, err := s.Files.SweepExpired()
	if err != nil {
		logging.Log.Errorf("Expiry sweep failed: %v", err)
		return
	}
	metrics.ExpiredFilesSweptTotal.Add(float64(removed))
}
