package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/houseofabhilasha/storefront/internal/log"
	inOtel "github.com/houseofabhilasha/storefront/internal/otel"
)

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	headers map[string]string,
	body map[string]interface{},
	statusCode int,
) {
	c, span := inOtel.Tracer.Start(c, "WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WriteJsonResponse").
		Logger()

	w.Header().Set(HeaderKeyContentType, HeaderValueApplicationJSON)
	for key, value := range headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		err = fmt.Errorf("failed encoding response body with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
