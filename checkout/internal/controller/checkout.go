package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/houseofabhilasha/storefront/checkout/internal/service"
	"github.com/houseofabhilasha/storefront/checkout/pkg/request"
	inErr "github.com/houseofabhilasha/storefront/internal/errors"
	inHttp "github.com/houseofabhilasha/storefront/internal/http"
	"github.com/houseofabhilasha/storefront/internal/log"
	inOtel "github.com/houseofabhilasha/storefront/internal/otel"
)

type CheckoutController struct {
	service  *service.CheckoutService
	validate *validator.Validate
}

func NewCheckoutController(
	svc *service.CheckoutService,
	validate *validator.Validate,
) *CheckoutController {
	return &CheckoutController{service: svc, validate: validate}
}

func AttachCheckoutController(router *mux.Router, ctl *CheckoutController) {
	router.HandleFunc("/checkout/guest", ctl.GuestCheckout).Methods(http.MethodPost)
}

func (ctl *CheckoutController) writeError(
	r *http.Request,
	w http.ResponseWriter,
	statusCode int,
	message string,
	data map[string]interface{},
) {
	body := map[string]interface{}{
		"status":     "failed",
		"statusCode": statusCode,
		"message":    message,
	}
	if data != nil {
		body["data"] = data
	}
	inHttp.WriteJsonResponse(r.Context(), w, map[string]string{}, body, statusCode)
}

// validationError converts validator errors into the field-naming failure the
// storefront client renders next to the form.
func validationError(err error) inErr.ValidationError {
	fields := []string{}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			fields = append(fields, fieldErr.Field())
		}
	}
	return inErr.ValidationError{Fields: fields}
}

func (ctl *CheckoutController) GuestCheckout(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CheckoutController GuestCheckout")
	defer span.End()
	r = r.WithContext(c)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController GuestCheckout").
		Logger()

	reqBody := request.GuestCheckout{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		ctl.writeError(r, w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := ctl.validate.StructCtx(c, reqBody); err != nil {
		validationErr := validationError(err)
		logger.Error().Err(validationErr).Msg(validationErr.Error())
		inOtel.RecordError(validationErr, span)
		ctl.writeError(
			r,
			w,
			http.StatusBadRequest,
			validationErr.Error(),
			map[string]interface{}{"fields": validationErr.Fields},
		)
		return
	}

	checkout, err := ctl.service.GuestCheckout(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed processing guest checkout with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		message := "failed processing guest checkout"
		if errors.Is(err, inErr.ErrProvisioning) {
			message = inErr.ErrProvisioning.Error()
		} else if errors.Is(err, inErr.ErrOrderPersistence) {
			message = inErr.ErrOrderPersistence.Error()
		}
		ctl.writeError(r, w, http.StatusInternalServerError, message, nil)
		return
	}

	inHttp.WriteJsonResponse(
		c,
		w,
		map[string]string{},
		map[string]interface{}{
			"status":     "success",
			"statusCode": http.StatusCreated,
			"message":    "order placed",
			"data":       map[string]interface{}{"checkout": checkout},
		},
		http.StatusCreated,
	)
}
