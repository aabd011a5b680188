package service

import (
	"context"

	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/repository"
)

type ChatService interface {
	PostMessage(ctx context.Context, actor *models.User, requestID, text string) (*models.ChatMessage, error)
	ListMessages(ctx context.Context, actor *models.User, requestID string) (*models.ChatResponse, error)
}

type chatService struct {
	chatRepo    repository.ChatRepository
	requestRepo repository.RideRequestRepository
	rideRepo    repository.RideRepository
}

func NewChatService(
	chatRepo repository.ChatRepository,
	requestRepo repository.RideRequestRepository,
	rideRepo repository.RideRepository,
) ChatService {
	return &chatService{
		chatRepo:    chatRepo,
		requestRepo: requestRepo,
		rideRepo:    rideRepo,
	}
}

func (s *chatService) PostMessage(ctx context.Context, actor *models.User, requestID, text string) (*models.ChatMessage, error) {
	request, err := s.participantRequest(ctx, actor, requestID, false)
	if err != nil {
		return nil, err
	}
	if !models.ChatEnabled(request.Status) {
		return nil, apperrors.ChatClosed()
	}

	message := &models.ChatMessage{
		RideRequestID: requestID,
		SenderID:      actor.ID,
		Message:       text,
	}
	if err := s.chatRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// ListMessages returns the full history ordered oldest first. History stays
// readable after the trip completes even though posting is closed.
func (s *chatService) ListMessages(ctx context.Context, actor *models.User, requestID string) (*models.ChatResponse, error) {
	request, err := s.participantRequest(ctx, actor, requestID, true)
	if err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	return &models.ChatResponse{
		Messages:    messages,
		ChatEnabled: models.ChatEnabled(request.Status),
	}, nil
}

// participantRequest loads the request and checks the actor belongs to the
// trip. Admins may read but never post.
func (s *chatService) participantRequest(ctx context.Context, actor *models.User, requestID string, allowAdmin bool) (*models.RideRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NotFound("ride request")
	}

	if allowAdmin && actor.IsAdmin {
		return request, nil
	}
	if actor.ID == request.RiderID {
		return request, nil
	}

	ride, err := s.rideRepo.GetByID(ctx, request.RideID)
	if err != nil {
		return nil, err
	}
	if ride != nil && actor.ID == ride.DriverID {
		return request, nil
	}

	return nil, apperrors.Forbidden("you are not part of this trip")
}
