package handler

import (
	"net/http"

	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/pkg/utils"
)

func handleError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*apperrors.APIError); ok {
		utils.Error(w, apiErr)
		return
	}

	switch err {
	case apperrors.ErrSeatsExhausted:
		utils.Error(w, apperrors.SeatsExhausted())
	case apperrors.ErrDuplicateRequest:
		utils.Error(w, apperrors.DuplicateRequest())
	case apperrors.ErrPinMismatch:
		utils.Error(w, apperrors.PinMismatch())
	case apperrors.ErrRideNotOpen:
		utils.Error(w, apperrors.RideNotOpen())
	case apperrors.ErrChatClosed:
		utils.Error(w, apperrors.ChatClosed())
	default:
		utils.InternalError(w, "internal server error")
	}
}
