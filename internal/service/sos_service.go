package service

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/repository"
)

type SosService interface {
	Trigger(ctx context.Context, actor *models.User, req *models.TriggerSosRequest) (*models.SosEvent, error)
	Review(ctx context.Context, actor *models.User, sosID, notes string) (*models.SosEvent, error)
	Resolve(ctx context.Context, actor *models.User, sosID, notes string) (*models.SosEvent, error)
	List(ctx context.Context, actor *models.User, status string) (*models.SosListResponse, error)
}

type sosService struct {
	sosRepo     repository.SosRepository
	requestRepo repository.RideRequestRepository
	rideRepo    repository.RideRepository
}

func NewSosService(
	sosRepo repository.SosRepository,
	requestRepo repository.RideRequestRepository,
	rideRepo repository.RideRepository,
) SosService {
	return &sosService{
		sosRepo:     sosRepo,
		requestRepo: requestRepo,
		rideRepo:    rideRepo,
	}
}

// Trigger records an emergency alert on an ongoing trip. Repeated triggers
// are allowed on purpose: a panicking user re-tapping SOS must never be
// turned away.
func (s *sosService) Trigger(ctx context.Context, actor *models.User, req *models.TriggerSosRequest) (*models.SosEvent, error) {
	request, err := s.requestRepo.GetByID(ctx, req.RideRequestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NotFound("ride request")
	}
	if request.Status != models.RequestStatusOngoing {
		return nil, apperrors.Conflict("sos can only be raised during an ongoing ride")
	}

	ride, err := s.rideRepo.GetByID(ctx, request.RideID)
	if err != nil {
		return nil, err
	}
	if ride == nil {
		return nil, apperrors.NotFound("ride")
	}
	if actor.ID != request.RiderID && actor.ID != ride.DriverID {
		return nil, apperrors.Forbidden("only the rider or driver of this trip can raise an sos")
	}

	event := &models.SosEvent{
		RideRequestID: request.ID,
		TriggeredBy:   actor.ID,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	}
	if req.Message != "" {
		event.Message = &req.Message
	}

	if err := s.sosRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *sosService) Review(ctx context.Context, actor *models.User, sosID, notes string) (*models.SosEvent, error) {
	event, err := s.adminEvent(ctx, actor, sosID)
	if err != nil {
		return nil, err
	}
	if !event.CanTransitionTo(models.SosStatusReviewed) {
		return nil, apperrors.InvalidTransition(event.Status, models.SosStatusReviewed)
	}

	if err := s.sosRepo.MarkReviewed(ctx, sosID, notes); err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			return nil, apperrors.InvalidTransition(event.Status, models.SosStatusReviewed)
		}
		return nil, err
	}

	event.Status = models.SosStatusReviewed
	if notes != "" {
		event.AdminNotes = &notes
	}
	return event, nil
}

func (s *sosService) Resolve(ctx context.Context, actor *models.User, sosID, notes string) (*models.SosEvent, error) {
	event, err := s.adminEvent(ctx, actor, sosID)
	if err != nil {
		return nil, err
	}
	if !event.CanTransitionTo(models.SosStatusResolved) {
		return nil, apperrors.InvalidTransition(event.Status, models.SosStatusResolved)
	}

	now := time.Now()
	if err := s.sosRepo.MarkResolved(ctx, sosID, notes, now); err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			return nil, apperrors.InvalidTransition(event.Status, models.SosStatusResolved)
		}
		return nil, err
	}

	event.Status = models.SosStatusResolved
	event.ResolvedAt = &now
	if notes != "" {
		event.AdminNotes = &notes
	}
	return event, nil
}

func (s *sosService) List(ctx context.Context, actor *models.User, status string) (*models.SosListResponse, error) {
	if !actor.IsAdmin {
		return nil, apperrors.Forbidden("admin access required")
	}

	events, err := s.sosRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	counts, err := s.sosRepo.CountsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &models.SosListResponse{Events: events, Counts: counts}, nil
}

func (s *sosService) adminEvent(ctx context.Context, actor *models.User, sosID string) (*models.SosEvent, error) {
	if !actor.IsAdmin {
		return nil, apperrors.Forbidden("admin access required")
	}

	event, err := s.sosRepo.GetByID(ctx, sosID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, apperrors.NotFound("sos event")
	}
	return event, nil
}
