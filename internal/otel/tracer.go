package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/houseofabhilasha/storefront/internal/common/constants"
)

var Tracer = otel.Tracer(constants.AppMainStorefront)
