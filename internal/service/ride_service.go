package service

import (
	"context"
	"log"
	"time"

	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/repository"
)

type RideService interface {
	CreateRide(ctx context.Context, actor *models.User, req *models.CreateRideRequest) (*models.Ride, error)
	GetRide(ctx context.Context, id string) (*models.RideResponse, error)
	ListRides(ctx context.Context, destination, date string) ([]*models.RideResponse, error)
	ListAllRides(ctx context.Context, actor *models.User) ([]*models.RideResponse, error)
	MyRides(ctx context.Context, actor *models.User) ([]*models.RideResponse, error)
	UpdateRide(ctx context.Context, actor *models.User, id string, req *models.UpdateRideRequest) (*models.Ride, error)
	CompleteRide(ctx context.Context, actor *models.User, id string) (*models.Ride, error)
	DeleteRide(ctx context.Context, actor *models.User, id string) error
}

type rideService struct {
	rideRepo    repository.RideRepository
	requestRepo repository.RideRequestRepository
	userRepo    repository.UserRepository
}

func NewRideService(
	rideRepo repository.RideRepository,
	requestRepo repository.RideRequestRepository,
	userRepo repository.UserRepository,
) RideService {
	return &rideService{
		rideRepo:    rideRepo,
		requestRepo: requestRepo,
		userRepo:    userRepo,
	}
}

func (s *rideService) CreateRide(ctx context.Context, actor *models.User, req *models.CreateRideRequest) (*models.Ride, error) {
	if actor.Role != models.RoleDriver {
		return nil, apperrors.Forbidden("only drivers can post rides")
	}
	if !actor.IsVerified() {
		return nil, apperrors.Forbidden("student id verification required before posting rides")
	}
	if req.TotalSeats < 1 {
		return nil, apperrors.BadRequest("a ride needs at least one seat")
	}
	if req.EstimatedCost < 0 {
		return nil, apperrors.BadRequest("estimated cost cannot be negative")
	}

	ride := &models.Ride{
		DriverID:       actor.ID,
		Source:         req.Source,
		Destination:    req.Destination,
		SourceLat:      req.SourceLat,
		SourceLng:      req.SourceLng,
		DestinationLat: req.DestinationLat,
		DestinationLng: req.DestinationLng,
		DepartureDate:  req.Date,
		DepartureTime:  req.Time,
		TotalSeats:     req.TotalSeats,
		EstimatedCost:  req.EstimatedCost,
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}
	return ride, nil
}

func (s *rideService) GetRide(ctx context.Context, id string) (*models.RideResponse, error) {
	ride, err := s.rideRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ride == nil {
		return nil, apperrors.NotFound("ride")
	}

	response := ride.ToResponse()
	driver, err := s.userRepo.GetByID(ctx, ride.DriverID)
	if err == nil && driver != nil {
		response.DriverName = driver.Name
	}
	return response, nil
}

func (s *rideService) ListRides(ctx context.Context, destination, date string) ([]*models.RideResponse, error) {
	rides, err := s.rideRepo.List(ctx, destination, date)
	if err != nil {
		return nil, err
	}
	return detailResponses(rides), nil
}

func (s *rideService) ListAllRides(ctx context.Context, actor *models.User) ([]*models.RideResponse, error) {
	if !actor.IsAdmin {
		return nil, apperrors.Forbidden("admin access required")
	}

	rides, err := s.rideRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return detailResponses(rides), nil
}

func (s *rideService) MyRides(ctx context.Context, actor *models.User) ([]*models.RideResponse, error) {
	if actor.Role != models.RoleDriver {
		return nil, apperrors.Forbidden("only drivers can list their rides")
	}

	rides, err := s.rideRepo.ListByDriver(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.RideResponse, 0, len(rides))
	for _, r := range rides {
		resp := r.ToResponse()
		resp.DriverName = actor.Name
		responses = append(responses, resp)
	}
	return responses, nil
}

func (s *rideService) UpdateRide(ctx context.Context, actor *models.User, id string, req *models.UpdateRideRequest) (*models.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ride == nil {
		return nil, apperrors.NotFound("ride")
	}
	if ride.DriverID != actor.ID {
		return nil, apperrors.Forbidden("you can only update your own rides")
	}
	if ride.Status != models.RideStatusPosted {
		return nil, apperrors.Conflict("only posted rides can be edited")
	}

	if req.Source != nil {
		ride.Source = *req.Source
	}
	if req.Destination != nil {
		ride.Destination = *req.Destination
	}
	if req.Date != nil {
		ride.DepartureDate = *req.Date
	}
	if req.Time != nil {
		ride.DepartureTime = *req.Time
	}
	if req.EstimatedCost != nil {
		ride.EstimatedCost = *req.EstimatedCost
	}
	if req.TotalSeats != nil {
		if ride.SeatsTaken() > 0 {
			return nil, apperrors.Conflict("cannot change seats after requests were accepted")
		}
		ride.TotalSeats = *req.TotalSeats
		ride.AvailableSeats = *req.TotalSeats
	}

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}
	return ride, nil
}

func (s *rideService) CompleteRide(ctx context.Context, actor *models.User, id string) (*models.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ride == nil {
		return nil, apperrors.NotFound("ride")
	}
	if ride.DriverID != actor.ID {
		return nil, apperrors.Forbidden("only the driver can complete this ride")
	}
	if !ride.CanTransitionTo(models.RideStatusCompleted) {
		return nil, apperrors.InvalidTransition(ride.Status, models.RideStatusCompleted)
	}

	if err := s.rideRepo.UpdateStatus(ctx, id, models.RideStatusCompleted); err != nil {
		return nil, err
	}

	// Riders still marked ongoing are finished along with the ride.
	if err := s.requestRepo.CompleteOngoingByRide(ctx, id, time.Now()); err != nil {
		log.Printf("failed to complete ongoing requests for ride %s: %v", id, err)
	}

	ride.Status = models.RideStatusCompleted
	return ride, nil
}

func (s *rideService) DeleteRide(ctx context.Context, actor *models.User, id string) error {
	ride, err := s.rideRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ride == nil {
		return apperrors.NotFound("ride")
	}
	if ride.DriverID != actor.ID && !actor.IsAdmin {
		return apperrors.Forbidden("you can only delete your own rides")
	}

	// A ride that has carried anyone must stay on record.
	started, err := s.requestRepo.CountByRideInStatus(ctx, id,
		[]string{models.RequestStatusOngoing, models.RequestStatusCompleted})
	if err != nil {
		return err
	}
	if started > 0 {
		return apperrors.Conflict("cannot delete a ride that has already started")
	}

	return s.rideRepo.Delete(ctx, id)
}

func detailResponses(rides []*models.RideDetail) []*models.RideResponse {
	responses := make([]*models.RideResponse, 0, len(rides))
	for _, r := range rides {
		responses = append(responses, r.ToResponse())
	}
	return responses
}
