package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"gitlab.com/civitas-pk/civitas/internal/db"
	"gitlab.com/civitas-pk/civitas/internal/models"
)

type ctxKey int

const (
	UserHCtxKey ctxKey = iota
	CivitasHCtxKey
	CommitteeHCtxKey
)

const sessionCookie = "civitas_token"

type Routes struct {
	envConfig *models.EnvConfig
	db        *db.SharedDB
	logger    zerolog.Logger
}

func NewRouter(config *models.EnvConfig, database *db.SharedDB, logger zerolog.Logger) chi.Router {
	routes := &Routes{
		envConfig: config,
		db:        database,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(logger))
	r.Use(routes.UserCtx)
	r.Use(routes.CivitasCtx)

	r.Post("/signup", routes.AppHandler(routes.PostSignup))
	r.Post("/login", routes.AppHandler(routes.PostLogin))
	r.With(routes.EnforceCtx(UserHCtxKey)).Post("/signout", routes.AppHandler(routes.PostSignout))

	r.Route("/committees", routes.CommitteeRouter)
	r.With(routes.EnforceCtx(UserHCtxKey)).Route("/me", routes.MeRouter)

	return r
}

// AppError is any handler failure that can be rendered to the client.
type AppError interface {
	error
	Status() int
	Message() string
}

type ErrInternal struct {
	Cause error
	Msg   string
}

func (e *ErrInternal) Error() string { return "internal error: " + e.Cause.Error() }
func (e *ErrInternal) Status() int   { return http.StatusInternalServerError }
func (e *ErrInternal) Message() string {
	if e.Msg == "" {
		return "Internal server error"
	}
	return e.Msg
}

type ErrNotFound struct {
	Cause error
	Thing string
}

func (e *ErrNotFound) Error() string   { return "not found: " + e.Thing }
func (e *ErrNotFound) Status() int     { return http.StatusNotFound }
func (e *ErrNotFound) Message() string { return e.Thing + " not found" }

type ErrBadRequest struct {
	Cause error
	Msg   string
}

func (e *ErrBadRequest) Error() string {
	if e.Cause != nil {
		return "bad request: " + e.Cause.Error()
	}
	return "bad request: " + e.Msg
}
func (e *ErrBadRequest) Status() int { return http.StatusBadRequest }
func (e *ErrBadRequest) Message() string {
	if e.Msg == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Msg
}

type ErrForbidden struct {
	Cause error
}

func (e *ErrForbidden) Error() string   { return "forbidden" }
func (e *ErrForbidden) Status() int     { return http.StatusForbidden }
func (e *ErrForbidden) Message() string { return "Not enough permissions" }

type ErrUnauthorized struct{}

func (e *ErrUnauthorized) Error() string   { return "unauthorized" }
func (e *ErrUnauthorized) Status() int     { return http.StatusUnauthorized }
func (e *ErrUnauthorized) Message() string { return "Authentication required" }

// AppHandler adapts an AppError-returning handler to http.HandlerFunc,
// rendering the error as JSON and logging the cause.
func (routes *Routes) AppHandler(handler func(w http.ResponseWriter, r *http.Request) AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}
		respondJSON(w, err.Status(), map[string]string{"error": err.Message()})
		hlog.FromRequest(r).
			Error().
			Str("request_id", middleware.GetReqID(r.Context())).
			Err(err).
			Msg(err.Message())
	}
}

// appErrFrom maps domain errors onto HTTP-level ones.
func appErrFrom(err error) AppError {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		return &ErrBadRequest{Cause: vErr}
	case errors.Is(err, models.ErrNotFound):
		return &ErrNotFound{Cause: err, Thing: "resource"}
	case errors.Is(err, models.ErrPermDenied):
		return &ErrForbidden{Cause: err}
	default:
		return &ErrInternal{Cause: err}
	}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// UserCtx resolves the session cookie to a UserH. Requests without a
// valid session proceed anonymously.
func (routes *Routes) UserCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err == nil {
			userH, err := routes.db.GetUserH(r.Context(), cookie.Value)
			if err == nil {
				ctx := context.WithValue(r.Context(), UserHCtxKey, &userH)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// CivitasCtx attaches the root handle, bound to the session user if any.
func (routes *Routes) CivitasCtx(next http.Handler) http.Handler {
	return routes.AppHandler(func(w http.ResponseWriter, r *http.Request) AppError {
		userH, _ := r.Context().Value(UserHCtxKey).(*db.UserH)
		civitasH, err := routes.db.GetCivitasH(r.Context(), userH)
		if err != nil {
			return &ErrInternal{Cause: err}
		}
		ctx := context.WithValue(r.Context(), CivitasHCtxKey, civitasH)
		next.ServeHTTP(w, r.WithContext(ctx))
		return nil
	})
}

// EnforceCtx rejects requests missing a required context value.
func (routes *Routes) EnforceCtx(key ctxKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return routes.AppHandler(func(w http.ResponseWriter, r *http.Request) AppError {
			if r.Context().Value(key) == nil {
				return &ErrUnauthorized{}
			}
			next.ServeHTTP(w, r)
			return nil
		})
	}
}
