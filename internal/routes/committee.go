package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gitlab.com/civitas-pk/civitas/internal/models"
)

func (routes *Routes) CommitteeRouter(r chi.Router) {
	r.Use(routes.EnforceCtx(UserHCtxKey))
	r.Get("/", routes.AppHandler(routes.GetPublicCommittees))
	r.Post("/", routes.AppHandler(routes.PostCommittee))

	r.Route("/{committeeID}", func(r chi.Router) {
		r.Use(routes.CommitteeCtx)
		r.Get("/", routes.AppHandler(routes.GetCommittee))
		r.Delete("/", routes.AppHandler(routes.DeleteCommittee))
		r.Put("/settings", routes.AppHandler(routes.PutSettings))
		r.Post("/join", routes.AppHandler(routes.PostJoin))
		r.Get("/members", routes.AppHandler(routes.GetMembers))
		r.Get("/schedule/payments", routes.AppHandler(routes.GetPaymentSchedule))
		r.Get("/schedule/payouts", routes.AppHandler(routes.GetPayoutSchedule))
		r.Post("/payments", routes.AppHandler(routes.PostPayment))
		r.Get("/payouts", routes.AppHandler(routes.GetPayouts))
		r.Post("/payouts", routes.AppHandler(routes.PostPayout))
		r.Get("/invitations", routes.AppHandler(routes.GetCommitteeInvitations))
		r.Post("/invitations", routes.AppHandler(routes.PostInvitation))
	})
}

// CommitteeCtx resolves {committeeID} into a permission-checked handle.
func (routes *Routes) CommitteeCtx(next http.Handler) http.Handler {
	return routes.AppHandler(func(w http.ResponseWriter, r *http.Request) AppError {
		committeeID := chi.URLParam(r, "committeeID")
		committeeH, err := civitasH(r).GetCommitteeH(r.Context(), committeeID)
		if err != nil {
			return appErrFrom(err)
		}
		ctx := context.WithValue(r.Context(), CommitteeHCtxKey, committeeH)
		next.ServeHTTP(w, r.WithContext(ctx))
		return nil
	})
}

func (routes *Routes) GetPublicCommittees(w http.ResponseWriter, r *http.Request) AppError {
	committees, err := civitasH(r).ListPublicCommittees(r.Context())
	if err != nil {
		return &ErrInternal{Cause: err}
	}
	respondJSON(w, http.StatusOK, committees)
	return nil
}

func (routes *Routes) PostCommittee(w http.ResponseWriter, r *http.Request) AppError {
	var req models.CommitteeReq
	if err := decodeJSON(r, &req); err != nil {
		return &ErrBadRequest{Cause: err}
	}
	committeeH, err := civitasH(r).CreateCommittee(r.Context(), &req)
	if err != nil {
		return appErrFrom(err)
	}
	committee, err := committeeH.Read(r.Context())
	if err != nil {
		return &ErrInternal{Cause: err}
	}
	respondJSON(w, http.StatusCreated, committee)
	return nil
}

func (routes *Routes) GetCommittee(w http.ResponseWriter, r *http.Request) AppError {
	committee, err := committeeH(r).Read(r.Context())
	if err != nil {
		return appErrFrom(err)
	}
	respondJSON(w, http.StatusOK, committee)
	return nil
}

func (routes *Routes) DeleteCommittee(w http.ResponseWriter, r *http.Request) AppError {
	if err := committeeH(r).Delete(r.Context()); err != nil {
		return appErrFrom(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (routes *Routes) PutSettings(w http.ResponseWriter, r *http.Request) AppError {
	var settings models.CommitteeSettings
	if err := decodeJSON(r, &settings); err != nil {
		return &ErrBadRequest{Cause: err}
	}
	if err := committeeH(r).UpdateSettings(r.Context(), settings); err != nil {
		return appErrFrom(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// PostJoin reports full committees and repeat joins as joined=false
// rather than errors; the client can retry with a different committee.
func (routes *Routes) PostJoin(w http.ResponseWriter, r *http.Request) AppError {
	joined, err := committeeH(r).Join(r.Context())
	if err != nil {
		return appErrFrom(err)
	}
	respondJSON(w, http.StatusOK, map[string]bool{"joined": joined})
	return nil
}

func (routes *Routes) GetMembers(w http.ResponseWriter, r *http.Request) AppError {
	members, err := committeeH(r).ListMembers(r.Context())
	if err != nil {
		return &ErrInternal{Cause: err}
	}
	respondJSON(w, http.StatusOK, members)
	return nil
}

func (routes *Routes) GetPaymentSchedule(w http.ResponseWriter, r *http.Request) AppError {
	payments, err := committeeH(r).PaymentSchedule(r.Context())
	if err != nil {
		return appErrFrom(err)
	}
	respondJSON(w, http.StatusOK, payments)
	return nil
}

func (routes *Routes) GetPayoutSchedule(w http.ResponseWriter, r *http.Request) AppError {
	payouts, err := committeeH(r).PayoutSchedule(r.Context())
	if err != nil {
		return appErrFrom(err)
	}
	respondJSON(w, http.StatusOK, payouts)
	return nil
}

func (routes *Routes) PostPayment(w http.ResponseWriter, r *http.Request) AppError {
	var req models.PaymentReq
	if err := decodeJSON(r, &req); err != nil {
		return &ErrBadRequest{Cause: err}
	}
	payment, err := committeeH(r).RecordPayment(r.Context(), &req)
	if err != nil {
		return appErrFrom(err)
	}
	respondJSON(w, http.StatusCreated, payment)
	return nil
}

func (routes *Routes) GetPayouts(w http.ResponseWriter, r *http.Request) AppError {
	payouts, err := committeeH(r).ListPayouts(r.Context())
	if err != nil {
		return appErrFrom(err)
	}
	respondJSON(w, http.StatusOK, payouts)
	return nil
}

type payoutRequest struct {
	UserID       string
	PayoutMethod string
}

func (routes *Routes) PostPayout(w http.ResponseWriter, r *http.Request) AppError {
	var req payoutRequest
	if err := decodeJSON(r, &req); err != nil {
		return &ErrBadRequest{Cause: err}
	}
	payout, err := committeeH(r).DisbursePayout(r.Context(), req.UserID, req.PayoutMethod)
	if err != nil {
		return appErrFrom(err)
	}
	respondJSON(w, http.StatusCreated, payout)
	return nil
}

func (routes *Routes) GetCommitteeInvitations(w http.ResponseWriter, r *http.Request) AppError {
	invitations, err := committeeH(r).ListInvitations(r.Context())
	if err != nil {
		return appErrFrom(err)
	}
	respondJSON(w, http.StatusOK, invitations)
	return nil
}

type invitationRequest struct {
	InvitedUserID string
	Message       *string
}

// PostInvitation reports an already-pending invitation as sent=false.
func (routes *Routes) PostInvitation(w http.ResponseWriter, r *http.Request) AppError {
	var req invitationRequest
	if err := decodeJSON(r, &req); err != nil {
		return &ErrBadRequest{Cause: err}
	}
	sent, err := committeeH(r).SendInvitation(r.Context(), req.InvitedUserID, req.Message)
	if err != nil {
		return appErrFrom(err)
	}
	respondJSON(w, http.StatusOK, map[string]bool{"sent": sent})
	return nil
}
