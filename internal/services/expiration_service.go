package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// expiryBatchSize caps how many lapsed bookings one sweep processes
const expiryBatchSize = 100

// ExpirationService runs the background sweep that cancels pending bookings
// whose payment hold lapsed and returns their seats to inventory
type ExpirationService struct {
	cron           *cron.Cron
	bookingService *BookingService
	schedule       string
	logger         *logrus.Logger
}

// NewExpirationService creates a new expiration service. schedule is a cron
// spec with seconds precision.
func NewExpirationService(bookingService *BookingService, schedule string, logger *logrus.Logger) *ExpirationService {
	return &ExpirationService{
		cron:           cron.New(cron.WithSeconds()),
		bookingService: bookingService,
		schedule:       schedule,
		logger:         logger,
	}
}

// Start schedules and starts the expiry sweep
func (s *ExpirationService) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.sweep)
	if err != nil {
		return fmt.Errorf("failed to schedule booking expiry sweep: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("schedule", s.schedule).Info("Booking expiry sweep started")

	return nil
}

// Stop stops the sweep and waits for a running job to finish
func (s *ExpirationService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Booking expiry sweep stopped")
}

// sweep expires one batch of lapsed pending bookings
func (s *ExpirationService) sweep() {
	expired, err := s.bookingService.ExpireDueBookings(time.Now(), expiryBatchSize)
	if err != nil {
		s.logger.WithError(err).Error("Booking expiry sweep failed")
		return
	}

	if expired > 0 {
		s.logger.WithField("expired", expired).Info("Booking expiry sweep completed")
	}
}
