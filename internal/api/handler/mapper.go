package handler

import (
	"github.com/procurecontract/session-service/internal/core/domain"
	"github.com/procurecontract/session-service/internal/core/ports"
)

// --- Request → domain input ---

func toRegistration(req registerRequest) domain.Registration {
	return domain.Registration{
		Username:    req.Username,
		DisplayName: req.Name,
		Email:       req.Email,
		Password:    req.Password,
	}
}

func toProfileUpdate(req profileRequest) domain.ProfileUpdate {
	return domain.ProfileUpdate{DisplayName: req.Name, Email: req.Email}
}

// --- Domain → HTTP response ---

func toUserResponse(s *domain.Session) *userResponse {
	if s == nil {
		return nil
	}
	return &userResponse{
		ID:       s.UserID,
		Username: s.Username,
		Name:     s.DisplayName,
		Email:    s.Email,
		Role:     string(s.Role),
	}
}

func toSessionResponse(snap domain.Snapshot) sessionResponse {
	return sessionResponse{
		Session:         toUserResponse(snap.Session),
		IsAuthenticated: snap.IsAuthenticated(),
		IsLoading:       snap.IsLoading(),
	}
}

func toClientList(sessions []ports.ClientSession) clientListResponse {
	clients := make([]clientSessionResponse, 0, len(sessions))
	for _, cs := range sessions {
		clients = append(clients, clientSessionResponse{
			ClientID: cs.ClientID,
			State:    string(cs.Snapshot.State),
			User:     toUserResponse(cs.Snapshot.Session),
		})
	}
	return clientListResponse{Total: len(clients), Clients: clients}
}
