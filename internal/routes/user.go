package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"gitlab.com/civitas-pk/civitas/internal/advisor"
	"gitlab.com/civitas-pk/civitas/internal/models"
	"gitlab.com/civitas-pk/civitas/internal/trust"
)

func (routes *Routes) MeRouter(r chi.Router) {
	r.Get("/", routes.AppHandler(routes.GetProfile))
	r.Put("/", routes.AppHandler(routes.PutProfile))
	r.Get("/committees", routes.AppHandler(routes.GetMyCommittees))
	r.Get("/invitations", routes.AppHandler(routes.GetMyInvitations))
	r.Post("/invitations/{invitationID}", routes.AppHandler(routes.PostInvitationResponse))
	r.Get("/invitees", routes.AppHandler(routes.GetInvitees))
	r.Get("/payments", routes.AppHandler(routes.GetPaymentHistory))
	r.Get("/payout-notices", routes.AppHandler(routes.GetPayoutNotices))
	r.Get("/trust", routes.AppHandler(routes.GetTrust))
	r.Get("/trust/events", routes.AppHandler(routes.GetTrustEvents))
	r.Post("/advice", routes.AppHandler(routes.PostAdvice))
}

func (routes *Routes) GetProfile(w http.ResponseWriter, r *http.Request) AppError {
	user, err := userH(r).Read(r.Context())
	if err != nil {
		return appErrFrom(err)
	}
	respondJSON(w, http.StatusOK, user)
	return nil
}

func (routes *Routes) PutProfile(w http.ResponseWriter, r *http.Request) AppError {
	var update models.ProfileUpdate
	if err := decodeJSON(r, &update); err != nil {
		return &ErrBadRequest{Cause: err}
	}
	if err := userH(r).UpdateProfile(r.Context(), update); err != nil {
		return appErrFrom(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (routes *Routes) GetMyCommittees(w http.ResponseWriter, r *http.Request) AppError {
	committees, err := userH(r).ListCommittees(r.Context())
	if err != nil {
		return &ErrInternal{Cause: err}
	}
	respondJSON(w, http.StatusOK, committees)
	return nil
}

func (routes *Routes) GetMyInvitations(w http.ResponseWriter, r *http.Request) AppError {
	invitations, err := userH(r).ListInvitations(r.Context())
	if err != nil {
		return &ErrInternal{Cause: err}
	}
	respondJSON(w, http.StatusOK, invitations)
	return nil
}

type invitationResponse struct {
	Accept bool
}

// PostInvitationResponse settles a pending invitation. Accepting joins
// the committee in the same transaction; joined=false means the
// invitation was already settled or the committee filled up meanwhile.
func (routes *Routes) PostInvitationResponse(w http.ResponseWriter, r *http.Request) AppError {
	var req invitationResponse
	if err := decodeJSON(r, &req); err != nil {
		return &ErrBadRequest{Cause: err}
	}
	invitationID := chi.URLParam(r, "invitationID")
	joined, err := userH(r).RespondToInvitation(r.Context(), invitationID, req.Accept)
	if err != nil {
		return appErrFrom(err)
	}
	respondJSON(w, http.StatusOK, map[string]bool{"joined": joined})
	return nil
}

func (routes *Routes) GetInvitees(w http.ResponseWriter, r *http.Request) AppError {
	users, err := civitasH(r).ListUsersForInvitation(r.Context())
	if err != nil {
		return appErrFrom(err)
	}
	respondJSON(w, http.StatusOK, users)
	return nil
}

func (routes *Routes) GetPaymentHistory(w http.ResponseWriter, r *http.Request) AppError {
	payments, err := userH(r).PaymentHistory(r.Context())
	if err != nil {
		return &ErrInternal{Cause: err}
	}
	respondJSON(w, http.StatusOK, payments)
	return nil
}

func (routes *Routes) GetPayoutNotices(w http.ResponseWriter, r *http.Request) AppError {
	notices, err := userH(r).PayoutNotices(r.Context())
	if err != nil {
		return &ErrInternal{Cause: err}
	}
	respondJSON(w, http.StatusOK, notices)
	return nil
}

type trustResponse struct {
	Score           int
	Level           trust.LevelInfo
	Recommendations []string
}

// GetTrust recomputes the score from current history before reporting
// it, so the number shown always matches the audit trail.
func (routes *Routes) GetTrust(w http.ResponseWriter, r *http.Request) AppError {
	score, err := civitasH(r).RefreshTrustScore(r.Context(), "score review")
	if err != nil {
		return appErrFrom(err)
	}
	respondJSON(w, http.StatusOK, trustResponse{
		Score:           score,
		Level:           trust.LevelFor(score),
		Recommendations: trust.Recommendations(score),
	})
	return nil
}

func (routes *Routes) GetTrustEvents(w http.ResponseWriter, r *http.Request) AppError {
	events, err := civitasH(r).TrustEvents(r.Context())
	if err != nil {
		return appErrFrom(err)
	}
	respondJSON(w, http.StatusOK, events)
	return nil
}

type adviceResponse struct {
	SafeCommitteeAmount int
	Recommendations     []advisor.Recommendation
}

func (routes *Routes) PostAdvice(w http.ResponseWriter, r *http.Request) AppError {
	var profile advisor.Profile
	if err := decodeJSON(r, &profile); err != nil {
		return &ErrBadRequest{Cause: err}
	}
	respondJSON(w, http.StatusOK, adviceResponse{
		SafeCommitteeAmount: advisor.SafeCommitteeAmount(profile),
		Recommendations:     advisor.Advise(profile),
	})
	return nil
}
