// Package lifecycle drives investments from creation through approval,
// accrual and disposition, together with the balance operations that feed
// and drain a user's withdrawable balance.
package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"github.com/chris/crypto-investments/pkg/metrics"
	"github.com/chris/crypto-investments/pkg/plans"
	"github.com/chris/crypto-investments/pkg/referral"
	"github.com/chris/crypto-investments/pkg/scheduler"
	"github.com/chris/crypto-investments/pkg/storage"
	"github.com/chris/crypto-investments/pkg/websockets"
	"github.com/google/uuid"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Admin  bool
}

// Dependencies wires a Service. Only Store is required.
type Dependencies struct {
	Store     storage.ApiStore
	Catalog   *plans.Catalog
	Referral  *referral.Engine
	Publisher websockets.Publisher
	Scheduler scheduler.Scheduler
	Metrics   *metrics.MetricsCollector
	Logger    *slog.Logger
	Now       func() time.Time
	NewID     func() string
}

// Service implements the investment lifecycle operations.
type Service struct {
	store     storage.ApiStore
	catalog   *plans.Catalog
	referral  *referral.Engine
	publisher websockets.Publisher
	scheduler scheduler.Scheduler
	metrics   *metrics.MetricsCollector
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewService creates a Service, filling unset dependencies with defaults.
func NewService(d Dependencies) *Service {
	s := &Service{
		store:     d.Store,
		catalog:   d.Catalog,
		referral:  d.Referral,
		publisher: d.Publisher,
		scheduler: d.Scheduler,
		metrics:   d.Metrics,
		logger:    d.Logger,
		now:       d.Now,
		newID:     d.NewID,
	}
	if s.catalog == nil {
		s.catalog = plans.Default()
	}
	if s.referral == nil {
		s.referral = referral.NewEngine(referral.DefaultRate)
	}
	if s.publisher == nil {
		s.publisher = &websockets.NoOpPublisher{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}
	return s
}

// Catalog returns the plan catalog in use.
func (s *Service) Catalog() *plans.Catalog {
	return s.catalog
}

// observe records the outcome of an operation. Use with a named error return:
//
//	defer s.observe("approve", time.Now(), &err)
func (s *Service) observe(op string, start time.Time, err *error) {
	s.metrics.RecordOperation(op, time.Since(start), *err)
}

// publish delivers a live update. Failures never affect the operation.
func (s *Service) publish(ctx context.Context, userID string, msg websockets.Message) {
	if err := s.publisher.Publish(ctx, userID, msg); err != nil {
		s.logger.Warn("failed to publish update", "user_id", userID, "type", msg.Type, "error", err)
	}
}

func requireAdmin(actor Actor, op string) error {
	if !actor.Admin {
		return &forbiddenError{op: op, reason: "admin only"}
	}
	return nil
}

func requireOwner(actor Actor, ownerID, op string) error {
	if actor.UserID == "" || actor.UserID != ownerID {
		return &forbiddenError{op: op, reason: "not the owner"}
	}
	return nil
}

func requireOwnerOrAdmin(actor Actor, ownerID, op string) error {
	if actor.Admin {
		return nil
	}
	return requireOwner(actor, ownerID, op)
}

type forbiddenError struct {
	op     string
	reason string
}

func (e *forbiddenError) Error() string { return e.op + ": " + e.reason }

func (e *forbiddenError) Unwrap() error { return ErrForbidden }
