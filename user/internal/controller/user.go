package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/houseofabhilasha/storefront/internal/common"
	inErr "github.com/houseofabhilasha/storefront/internal/errors"
	inHttp "github.com/houseofabhilasha/storefront/internal/http"
	"github.com/houseofabhilasha/storefront/internal/log"
	inOtel "github.com/houseofabhilasha/storefront/internal/otel"
	"github.com/houseofabhilasha/storefront/user/internal/service"
	"github.com/houseofabhilasha/storefront/user/pkg/request"
)

type UserController struct {
	service  *service.UserService
	validate *validator.Validate
}

func NewUserController(svc *service.UserService, validate *validator.Validate) *UserController {
	return &UserController{service: svc, validate: validate}
}

func AttachUserController(
	router *mux.Router,
	ctl *UserController,
	auth func(http.Handler) http.Handler,
) {
	router.HandleFunc("/users/register", ctl.Register).Methods(http.MethodPost)
	router.HandleFunc("/users/login", ctl.Login).Methods(http.MethodPost)

	meRouter := router.PathPrefix("/users/me").Subrouter()
	meRouter.Use(auth)
	meRouter.HandleFunc("", ctl.CurrentUser).Methods(http.MethodGet)
}

func (ctl *UserController) writeError(
	r *http.Request,
	w http.ResponseWriter,
	statusCode int,
	message string,
) {
	inHttp.WriteJsonResponse(
		r.Context(),
		w,
		map[string]string{},
		map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    message,
		},
		statusCode,
	)
}

func (ctl *UserController) Register(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "UserController Register")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserController Register").
		Logger()

	reqBody := request.Register{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		ctl.writeError(r, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ctl.validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		ctl.writeError(r, w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := ctl.service.Register(c, reqBody)
	if err != nil {
		if errors.Is(err, inErr.ErrEmailTaken) {
			ctl.writeError(r, w, http.StatusConflict, inErr.ErrEmailTaken.Error())
			return
		}
		err = fmt.Errorf("failed registering user with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		ctl.writeError(r, w, http.StatusInternalServerError, "failed registering user")
		return
	}

	inHttp.WriteJsonResponse(
		c,
		w,
		map[string]string{},
		map[string]interface{}{
			"status":     "success",
			"statusCode": http.StatusCreated,
			"message":    "user registered",
			"data":       map[string]interface{}{"user": user},
		},
		http.StatusCreated,
	)
}

func (ctl *UserController) Login(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "UserController Login")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserController Login").
		Logger()

	reqBody := request.Login{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		ctl.writeError(r, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ctl.validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		ctl.writeError(r, w, http.StatusBadRequest, err.Error())
		return
	}

	login, err := ctl.service.Login(c, reqBody)
	if err != nil {
		if errors.Is(err, inErr.ErrUserNotFound) ||
			errors.Is(err, inErr.ErrPasswordMismatch) {
			ctl.writeError(r, w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		err = fmt.Errorf("failed logging in with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		ctl.writeError(r, w, http.StatusInternalServerError, "failed logging in")
		return
	}

	inHttp.WriteJsonResponse(
		c,
		w,
		map[string]string{},
		map[string]interface{}{
			"status":     "success",
			"statusCode": http.StatusOK,
			"message":    "logged in",
			"data":       map[string]interface{}{"login": login},
		},
		http.StatusOK,
	)
}

func (ctl *UserController) CurrentUser(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "UserController CurrentUser")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserController CurrentUser").
		Logger()

	userId, err := common.UserIdFromJwtToken(c)
	if err != nil {
		err = fmt.Errorf("failed getting user id from jwt token with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		ctl.writeError(r, w, http.StatusUnauthorized, inErr.ErrTokenInvalid.Error())
		return
	}

	user, err := ctl.service.CurrentUser(c, userId)
	if err != nil {
		if errors.Is(err, inErr.ErrUserNotFound) {
			ctl.writeError(r, w, http.StatusNotFound, inErr.ErrUserNotFound.Error())
			return
		}
		err = fmt.Errorf("failed getting current user with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		ctl.writeError(r, w, http.StatusInternalServerError, "failed getting current user")
		return
	}

	inHttp.WriteJsonResponse(
		c,
		w,
		map[string]string{},
		map[string]interface{}{
			"status":     "success",
			"statusCode": http.StatusOK,
			"message":    "user retrieved",
			"data":       map[string]interface{}{"user": user},
		},
		http.StatusOK,
	)
}
