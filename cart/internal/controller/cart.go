package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/houseofabhilasha/storefront/cart/internal/service"
	"github.com/houseofabhilasha/storefront/cart/pkg/request"
	"github.com/houseofabhilasha/storefront/internal/common"
	"github.com/houseofabhilasha/storefront/internal/config"
	inErr "github.com/houseofabhilasha/storefront/internal/errors"
	inHttp "github.com/houseofabhilasha/storefront/internal/http"
	"github.com/houseofabhilasha/storefront/internal/log"
	inOtel "github.com/houseofabhilasha/storefront/internal/otel"
)

type CartController struct {
	service  *service.CartService
	validate *validator.Validate
	appName  string
	cfg      config.Application
}

func NewCartController(
	svc *service.CartService,
	validate *validator.Validate,
	appName string,
	cfg config.Application,
) *CartController {
	return &CartController{service: svc, validate: validate, appName: appName, cfg: cfg}
}

func AttachCartController(
	router *mux.Router,
	ctl *CartController,
	auth func(http.Handler) http.Handler,
) {
	router.HandleFunc("/carts", ctl.GetCart).Methods(http.MethodGet)
	router.HandleFunc("/carts", ctl.ClearCart).Methods(http.MethodDelete)
	router.HandleFunc("/carts/items", ctl.AddItem).Methods(http.MethodPost)
	router.HandleFunc("/carts/items/{productId}", ctl.UpdateQuantity).
		Methods(http.MethodPut)
	router.HandleFunc("/carts/items/{productId}", ctl.RemoveItem).
		Methods(http.MethodDelete)

	mergeRouter := router.PathPrefix("/carts/merge").Subrouter()
	mergeRouter.Use(auth)
	mergeRouter.HandleFunc("", ctl.MergeCart).Methods(http.MethodPost)
}

func (ctl *CartController) writeError(
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

// ownerFromRequest resolves the cart owner. A bearer token wins over the
// guest cart header so a signed-in client always works on the server cart.
func (ctl *CartController) ownerFromRequest(r *http.Request) (service.Owner, error) {
	authorization := r.Header.Get(inHttp.HeaderKeyAuthorization)
	if authorization != "" {
		tokenString := strings.TrimPrefix(authorization, "Bearer ")
		token, err := common.VerifyJwtToken(r.Context(), tokenString, ctl.appName, ctl.cfg)
		if err != nil {
			return nil, inErr.ErrTokenInvalid
		}
		subject, err := token.Claims.GetSubject()
		if err != nil {
			return nil, inErr.ErrTokenInvalid
		}
		userId, err := uuid.Parse(subject)
		if err != nil {
			return nil, inErr.ErrTokenInvalid
		}
		return service.UserOwner{UserID: userId}, nil
	}

	guestId := r.Header.Get(inHttp.HeaderKeyGuestCartID)
	if guestId == "" {
		return nil, inErr.ErrMissingGuestID
	}
	return service.GuestOwner{GuestID: guestId}, nil
}

func (ctl *CartController) ownerOrFail(
	w http.ResponseWriter,
	r *http.Request,
) (service.Owner, bool) {
	owner, err := ctl.ownerFromRequest(r)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, inErr.ErrTokenInvalid) {
			statusCode = http.StatusUnauthorized
		}
		ctl.writeError(r, w, statusCode, err.Error())
		return nil, false
	}
	return owner, true
}

func (ctl *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController GetCart")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController GetCart").
		Logger()

	owner, ok := ctl.ownerOrFail(w, r)
	if !ok {
		return
	}

	cart, err := ctl.service.GetCart(c, owner)
	if err != nil {
		err = fmt.Errorf("failed getting cart with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		ctl.writeError(r, w, http.StatusInternalServerError, "failed getting cart")
		return
	}

	inHttp.WriteJsonResponse(
		c,
		w,
		map[string]string{},
		map[string]interface{}{
			"status":     "success",
			"statusCode": http.StatusOK,
			"message":    "cart retrieved",
			"data":       map[string]interface{}{"cart": cart},
		},
		http.StatusOK,
	)
}

func (ctl *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController AddItem").
		Logger()

	owner, ok := ctl.ownerOrFail(w, r)
	if !ok {
		return
	}

	reqBody := request.AddItem{}
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

	cart, err := ctl.service.AddToCart(c, owner, reqBody)
	if err != nil {
		err = fmt.Errorf("failed adding item to cart with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		ctl.writeError(r, w, http.StatusInternalServerError, "failed adding item to cart")
		return
	}

	inHttp.WriteJsonResponse(
		c,
		w,
		map[string]string{},
		map[string]interface{}{
			"status":     "success",
			"statusCode": http.StatusCreated,
			"message":    "item added to cart",
			"data":       map[string]interface{}{"cart": cart},
		},
		http.StatusCreated,
	)
}

func (ctl *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController UpdateQuantity")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController UpdateQuantity").
		Logger()

	owner, ok := ctl.ownerOrFail(w, r)
	if !ok {
		return
	}
	productId := mux.Vars(r)["productId"]

	reqBody := request.UpdateQuantity{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		ctl.writeError(r, w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := ctl.service.UpdateQuantity(c, owner, productId, reqBody.Quantity)
	if err != nil {
		err = fmt.Errorf("failed updating cart line quantity with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		ctl.writeError(
			r,
			w,
			http.StatusInternalServerError,
			"failed updating cart line quantity",
		)
		return
	}

	inHttp.WriteJsonResponse(
		c,
		w,
		map[string]string{},
		map[string]interface{}{
			"status":     "success",
			"statusCode": http.StatusOK,
			"message":    "cart line updated",
			"data":       map[string]interface{}{"cart": cart},
		},
		http.StatusOK,
	)
}

func (ctl *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController RemoveItem")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController RemoveItem").
		Logger()

	owner, ok := ctl.ownerOrFail(w, r)
	if !ok {
		return
	}
	productId := mux.Vars(r)["productId"]

	cart, err := ctl.service.RemoveFromCart(c, owner, productId)
	if err != nil {
		err = fmt.Errorf("failed removing cart line with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		ctl.writeError(r, w, http.StatusInternalServerError, "failed removing cart line")
		return
	}

	inHttp.WriteJsonResponse(
		c,
		w,
		map[string]string{},
		map[string]interface{}{
			"status":     "success",
			"statusCode": http.StatusOK,
			"message":    "cart line removed",
			"data":       map[string]interface{}{"cart": cart},
		},
		http.StatusOK,
	)
}

func (ctl *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ClearCart").
		Logger()

	owner, ok := ctl.ownerOrFail(w, r)
	if !ok {
		return
	}

	cart, err := ctl.service.ClearCart(c, owner)
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		ctl.writeError(r, w, http.StatusInternalServerError, "failed clearing cart")
		return
	}

	inHttp.WriteJsonResponse(
		c,
		w,
		map[string]string{},
		map[string]interface{}{
			"status":     "success",
			"statusCode": http.StatusOK,
			"message":    "cart cleared",
			"data":       map[string]interface{}{"cart": cart},
		},
		http.StatusOK,
	)
}

func (ctl *CartController) MergeCart(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController MergeCart")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController MergeCart").
		Logger()

	userId, err := common.UserIdFromJwtToken(c)
	if err != nil {
		err = fmt.Errorf("failed getting user id from jwt token with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		ctl.writeError(r, w, http.StatusUnauthorized, inErr.ErrTokenInvalid.Error())
		return
	}

	reqBody := request.MergeCart{}
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

	cart, err := ctl.service.MergeGuestCart(c, reqBody.GuestCartID, userId)
	if err != nil {
		err = fmt.Errorf("failed merging guest cart with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		ctl.writeError(r, w, http.StatusInternalServerError, "failed merging guest cart")
		return
	}

	inHttp.WriteJsonResponse(
		c,
		w,
		map[string]string{},
		map[string]interface{}{
			"status":     "success",
			"statusCode": http.StatusOK,
			"message":    "guest cart merged",
			"data":       map[string]interface{}{"cart": cart},
		},
		http.StatusOK,
	)
}
