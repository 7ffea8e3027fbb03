package grpc

import (
	"context"

	"github.com/MKhiriev/workshop-qa/internal/kvrpc"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/models"
)

// OpenSession exchanges the access code for a signed session token.
func (h *Handler) OpenSession(ctx context.Context, req *kvrpc.SessionRequest) (*kvrpc.SessionReply, error) {
	token, err := h.services.AuthService.Login(ctx, models.SessionRequest{AccessCode: req.AccessCode})
	if err != nil {
		return nil, statusFromError(ctx, err)
	}

	logger.FromContext(ctx).Debug().Str("client_id", token.ClientID).Msg("session token issued")
	return &kvrpc.SessionReply{Token: token.SignedString}, nil
}
