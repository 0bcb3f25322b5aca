package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/vacuum-planner/internal/config"
	"github.com/vancomm/vacuum-planner/internal/middleware"
	"github.com/vancomm/vacuum-planner/internal/repository"
)

// OperatorStore is implemented by *repository.Queries.
type OperatorStore interface {
	CreateOperator(ctx context.Context, params repository.CreateOperatorParams) (*repository.Operator, error)
	FetchOperator(ctx context.Context, username string) (*repository.Operator, error)
}

type Auth struct {
	logger    *slog.Logger
	operators OperatorStore
	cookies   *config.Cookies
	jwt       *config.JWT
}

func NewAuth(
	logger *slog.Logger,
	operators OperatorStore,
	cookies *config.Cookies,
	jwt *config.JWT,
) *Auth {
	return &Auth{
		logger:    logger,
		operators: operators,
		cookies:   cookies,
		jwt:       jwt,
	}
}

type OperatorInfo struct {
	OperatorId int64  `json:"operator_id"`
	Username   string `json:"username"`
}

type Status struct {
	LoggedIn bool          `json:"logged_in"`
	Operator *OperatorInfo `json:"operator,omitempty"`
}

var (
	ErrBadAuthBody        = fmt.Errorf("request body must contain url-encoded username and password")
	ErrBadPasswordTooLong = fmt.Errorf("password too long")
	ErrUsernameTaken      = fmt.Errorf("username taken")
	ErrBadCredentials     = fmt.Errorf("invalid username or password")
)

// bcrypt ignores anything past 72 bytes.
const maxPasswordBytes = 72

func readCredentials(r *http.Request) (username string, password []byte, err error) {
	if err := r.ParseForm(); err != nil {
		return "", nil, ErrBadAuthBody
	}
	username = r.FormValue("username")
	password = []byte(r.FormValue("password"))
	if username == "" || len(password) == 0 {
		return "", nil, ErrBadAuthBody
	}
	if len(password) > maxPasswordBytes {
		return "", nil, ErrBadPasswordTooLong
	}
	return username, password, nil
}

func (a *Auth) issue(w http.ResponseWriter, operator *repository.Operator) error {
	claims := config.NewOperatorClaims(operator.OperatorId, operator.Username, a.jwt.TokenLifetime)
	token, err := a.jwt.Sign(claims)
	if err != nil {
		return fmt.Errorf("unable to sign operator claims: %w", err)
	}
	return a.cookies.Refresh(w, token, claims.ExpiresAt.Time)
}

func (a *Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.OperatorClaims(r.Context())
	if !ok {
		a.logger.Debug("could not parse cookies - clear cookies")
		a.cookies.Clear(w)
		sendJSONOrLog(w, a.logger, &Status{LoggedIn: false})
		return
	}

	a.logger.Debug("refresh cookies")
	err := a.issue(w, &repository.Operator{OperatorId: claims.OperatorId, Username: claims.Username})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to refresh cookies", slog.Any("error", err))
		return
	}

	sendJSONOrLog(w, a.logger, &Status{
		LoggedIn: true,
		Operator: &OperatorInfo{claims.OperatorId, claims.Username},
	})
}

func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	if a.operators == nil {
		sendError(w, a.logger, http.StatusServiceUnavailable, ErrStorageDisabled)
		return
	}

	username, password, err := readCredentials(r)
	if err != nil {
		sendError(w, a.logger, http.StatusBadRequest, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.MinCost)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to hash password", slog.Any("error", err))
		return
	}

	operator, err := a.operators.CreateOperator(r.Context(), repository.CreateOperatorParams{
		Username:     username,
		PasswordHash: hash,
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		sendError(w, a.logger, http.StatusConflict, ErrUsernameTaken)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to insert operator", slog.Any("error", err))
		return
	}

	if err := a.issue(w, operator); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to set auth cookies", slog.Any("error", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	sendJSONOrLog(w, a.logger, &OperatorInfo{operator.OperatorId, operator.Username})
}

func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	if a.operators == nil {
		sendError(w, a.logger, http.StatusServiceUnavailable, ErrStorageDisabled)
		return
	}

	username, password, err := readCredentials(r)
	if err != nil {
		sendError(w, a.logger, http.StatusBadRequest, err)
		return
	}

	operator, err := a.operators.FetchOperator(r.Context(), username)
	if errors.Is(err, pgx.ErrNoRows) {
		sendError(w, a.logger, http.StatusUnauthorized, ErrBadCredentials)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to fetch operator from db", slog.Any("error", err))
		return
	}

	err = bcrypt.CompareHashAndPassword(operator.PasswordHash, password)
	if err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			a.logger.Error("bcrypt compare error", slog.Any("error", err))
		}
		sendError(w, a.logger, http.StatusUnauthorized, ErrBadCredentials)
		return
	}

	if err := a.issue(w, operator); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to set auth cookies", slog.Any("error", err))
		return
	}

	sendJSONOrLog(w, a.logger, &OperatorInfo{operator.OperatorId, operator.Username})
}

func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

