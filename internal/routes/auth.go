package routes

import (
	"errors"
	"net/http"

	"gitlab.com/civitas-pk/civitas/internal/db"
	"gitlab.com/civitas-pk/civitas/internal/models"
)

type signupRequest struct {
	models.UserReq
	Password string
}

func (routes *Routes) PostSignup(w http.ResponseWriter, r *http.Request) AppError {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		return &ErrBadRequest{Cause: err}
	}

	userH, err := routes.db.CreateUser(r.Context(), &req.UserReq, req.Password)
	switch {
	case errors.Is(err, models.ErrUsernameTaken):
		return &ErrBadRequest{Msg: "Username already taken"}
	case errors.Is(err, models.ErrWeakPasswd):
		return &ErrBadRequest{Msg: "Password too weak: use 8+ characters with letters and numbers"}
	case errors.Is(err, models.ErrInvalidFormat):
		return &ErrBadRequest{Msg: "Invalid email format"}
	case err != nil:
		return appErrFrom(err)
	}

	user, err := userH.Read(r.Context())
	if err != nil {
		return &ErrInternal{Cause: err}
	}
	respondJSON(w, http.StatusCreated, user)
	return nil
}

type loginRequest struct {
	Username string
	Password string
}

func (routes *Routes) PostLogin(w http.ResponseWriter, r *http.Request) AppError {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		return &ErrBadRequest{Cause: err}
	}

	token, err := routes.db.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		return &ErrBadRequest{Msg: "Wrong username or password"}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
	return nil
}

func (routes *Routes) PostSignout(w http.ResponseWriter, r *http.Request) AppError {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return &ErrUnauthorized{}
	}
	if err := routes.db.Signout(r.Context(), cookie.Value); err != nil {
		return &ErrInternal{Cause: err}
	}
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func userH(r *http.Request) *db.UserH {
	userH, _ := r.Context().Value(UserHCtxKey).(*db.UserH)
	return userH
}

func civitasH(r *http.Request) *db.CivitasH {
	civitasH, _ := r.Context().Value(CivitasHCtxKey).(*db.CivitasH)
	return civitasH
}

func committeeH(r *http.Request) *db.CommitteeH {
	committeeH, _ := r.Context().Value(CommitteeHCtxKey).(*db.CommitteeH)
	return committeeH
}
