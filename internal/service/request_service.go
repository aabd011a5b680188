package service

import (
	"context"
	"errors"
	"log"
	"time"

	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/repository"
	"github.com/campuspool/campuspool/pkg/utils"
)

// RequestService owns the ride-request state machine:
//
//	requested --accept(driver)--> accepted --start(driver, pin)--> ongoing --reachedSafely(rider)--> completed
//	requested --reject(driver)--> rejected
type RequestService interface {
	CreateRequest(ctx context.Context, actor *models.User, rideID string) (*models.RideRequest, error)
	AcceptRequest(ctx context.Context, actor *models.User, requestID string) (*models.RideRequest, error)
	RejectRequest(ctx context.Context, actor *models.User, requestID string) (*models.RideRequest, error)
	StartRide(ctx context.Context, actor *models.User, requestID, pin string) (*models.RideRequest, error)
	ReachedSafely(ctx context.Context, actor *models.User, requestID string) (*models.RideRequest, error)
	MyRequests(ctx context.Context, actor *models.User) ([]*models.RideRequestResponse, error)
	PendingForDriver(ctx context.Context, actor *models.User) ([]*models.RideRequestResponse, error)
	AcceptedForDriver(ctx context.Context, actor *models.User) ([]*models.RideRequestResponse, error)
	RequestsForRide(ctx context.Context, actor *models.User, rideID string) ([]*models.RideRequestResponse, error)
}

type requestService struct {
	requestRepo repository.RideRequestRepository
	rideRepo    repository.RideRepository
	userRepo    repository.UserRepository
}

func NewRequestService(
	requestRepo repository.RideRequestRepository,
	rideRepo repository.RideRepository,
	userRepo repository.UserRepository,
) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		rideRepo:    rideRepo,
		userRepo:    userRepo,
	}
}

func (s *requestService) CreateRequest(ctx context.Context, actor *models.User, rideID string) (*models.RideRequest, error) {
	if actor.Role != models.RoleRider {
		return nil, apperrors.Forbidden("only riders can request rides")
	}
	if !actor.IsVerified() {
		return nil, apperrors.Forbidden("student id verification required before requesting rides")
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride == nil {
		return nil, apperrors.NotFound("ride")
	}
	if ride.Status != models.RideStatusPosted {
		return nil, apperrors.RideNotOpen()
	}
	if ride.DriverID == actor.ID {
		return nil, apperrors.Conflict("you cannot request your own ride")
	}
	if ride.AvailableSeats <= 0 {
		return nil, apperrors.SeatsExhausted()
	}

	existing, err := s.requestRepo.GetNonRejectedByRideAndRider(ctx, rideID, actor.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.DuplicateRequest()
	}

	request := &models.RideRequest{
		RideID:  rideID,
		RiderID: actor.ID,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// AcceptRequest reserves a seat for the rider. The seat decrement and the
// status change commit together inside the repository transaction; the checks
// here are re-run against the locked row so concurrent accepts past capacity
// fail cleanly.
func (s *requestService) AcceptRequest(ctx context.Context, actor *models.User, requestID string) (*models.RideRequest, error) {
	request, ride, err := s.requestWithRide(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != actor.ID {
		return nil, apperrors.Forbidden("only the ride's driver can handle this request")
	}
	if request.Status != models.RequestStatusRequested {
		return nil, apperrors.InvalidTransition(request.Status, models.RequestStatusAccepted)
	}
	if ride.Status == models.RideStatusCompleted {
		return nil, apperrors.RideNotOpen()
	}

	pin, err := utils.GeneratePIN()
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.Accept(ctx, requestID, pin); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return nil, apperrors.NotFound("ride request")
		case errors.Is(err, apperrors.ErrSeatsExhausted):
			return nil, apperrors.SeatsExhausted()
		case errors.Is(err, apperrors.ErrInvalidTransition):
			return nil, apperrors.InvalidTransition(request.Status, models.RequestStatusAccepted)
		default:
			return nil, err
		}
	}

	request.Status = models.RequestStatusAccepted
	request.PIN = &pin
	return request, nil
}

func (s *requestService) RejectRequest(ctx context.Context, actor *models.User, requestID string) (*models.RideRequest, error) {
	request, ride, err := s.requestWithRide(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != actor.ID {
		return nil, apperrors.Forbidden("only the ride's driver can handle this request")
	}
	if request.Status != models.RequestStatusRequested {
		return nil, apperrors.InvalidTransition(request.Status, models.RequestStatusRejected)
	}

	if err := s.requestRepo.Reject(ctx, requestID); err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			return nil, apperrors.InvalidTransition(request.Status, models.RequestStatusRejected)
		}
		return nil, err
	}

	request.Status = models.RequestStatusRejected
	return request, nil
}

func (s *requestService) StartRide(ctx context.Context, actor *models.User, requestID, pin string) (*models.RideRequest, error) {
	request, ride, err := s.requestWithRide(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != actor.ID {
		return nil, apperrors.Forbidden("only the ride's driver can start this ride")
	}
	if request.Status != models.RequestStatusAccepted {
		return nil, apperrors.InvalidTransition(request.Status, models.RequestStatusOngoing)
	}
	if request.PIN == nil || !utils.VerifyPIN(*request.PIN, pin) {
		return nil, apperrors.PinMismatch()
	}

	now := time.Now()
	if err := s.requestRepo.Start(ctx, requestID, now); err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			return nil, apperrors.InvalidTransition(request.Status, models.RequestStatusOngoing)
		}
		return nil, err
	}

	// First rider on board moves the ride out of posted.
	if err := s.rideRepo.UpdateStatusFrom(ctx, ride.ID, models.RideStatusPosted, models.RideStatusInProgress); err != nil {
		log.Printf("failed to mark ride %s in progress: %v", ride.ID, err)
	}

	request.Status = models.RequestStatusOngoing
	request.RideStartedAt = &now
	return request, nil
}

func (s *requestService) ReachedSafely(ctx context.Context, actor *models.User, requestID string) (*models.RideRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NotFound("ride request")
	}
	if request.RiderID != actor.ID {
		return nil, apperrors.Forbidden("only the rider can confirm arrival")
	}
	if request.Status != models.RequestStatusOngoing {
		return nil, apperrors.InvalidTransition(request.Status, models.RequestStatusCompleted)
	}

	now := time.Now()
	if err := s.requestRepo.Complete(ctx, requestID, now); err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			return nil, apperrors.InvalidTransition(request.Status, models.RequestStatusCompleted)
		}
		return nil, err
	}

	request.Status = models.RequestStatusCompleted
	request.ReachedSafelyAt = &now

	// Roll the ride up once its last unfinished request is done.
	unfinished, err := s.requestRepo.CountByRideInStatus(ctx, request.RideID, models.UnfinishedRequestStatuses)
	if err != nil {
		log.Printf("failed to count unfinished requests for ride %s: %v", request.RideID, err)
		return request, nil
	}
	if unfinished == 0 {
		if err := s.rideRepo.UpdateStatusFrom(ctx, request.RideID, models.RideStatusInProgress, models.RideStatusCompleted); err != nil {
			log.Printf("failed to roll up ride %s to completed: %v", request.RideID, err)
		}
	}

	return request, nil
}

func (s *requestService) MyRequests(ctx context.Context, actor *models.User) ([]*models.RideRequestResponse, error) {
	if actor.Role != models.RoleRider {
		return nil, apperrors.Forbidden("only riders can list their requests")
	}

	requests, err := s.requestRepo.ListByRider(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.RideRequestResponse, 0, len(requests))
	for _, r := range requests {
		// The rider sees the pin so they can present it to the driver.
		responses = append(responses, r.ToResponse().WithPIN(r.PIN))
	}
	return responses, nil
}

func (s *requestService) PendingForDriver(ctx context.Context, actor *models.User) ([]*models.RideRequestResponse, error) {
	if actor.Role != models.RoleDriver {
		return nil, apperrors.Forbidden("only drivers can list pending requests")
	}

	requests, err := s.requestRepo.ListPendingByDriver(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return detailRequestResponses(requests), nil
}

func (s *requestService) AcceptedForDriver(ctx context.Context, actor *models.User) ([]*models.RideRequestResponse, error) {
	if actor.Role != models.RoleDriver {
		return nil, apperrors.Forbidden("only drivers can list accepted requests")
	}

	requests, err := s.requestRepo.ListAcceptedByDriver(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return detailRequestResponses(requests), nil
}

func (s *requestService) RequestsForRide(ctx context.Context, actor *models.User, rideID string) ([]*models.RideRequestResponse, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride == nil {
		return nil, apperrors.NotFound("ride")
	}
	if ride.DriverID != actor.ID && !actor.IsAdmin {
		return nil, apperrors.Forbidden("you can only view requests for your own rides")
	}

	requests, err := s.requestRepo.ListByRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	return detailRequestResponses(requests), nil
}

func (s *requestService) requestWithRide(ctx context.Context, requestID string) (*models.RideRequest, *models.Ride, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if request == nil {
		return nil, nil, apperrors.NotFound("ride request")
	}

	ride, err := s.rideRepo.GetByID(ctx, request.RideID)
	if err != nil {
		return nil, nil, err
	}
	if ride == nil {
		return nil, nil, apperrors.NotFound("ride")
	}
	return request, ride, nil
}

// detailRequestResponses builds driver-facing views; the pin stays hidden
// there, the rider presents it in person.
func detailRequestResponses(requests []*models.RideRequestDetail) []*models.RideRequestResponse {
	responses := make([]*models.RideRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, r.ToResponse())
	}
	return responses
}
