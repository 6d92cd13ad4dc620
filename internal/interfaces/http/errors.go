package http

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores reportan el nombre JSON del campo, no el del struct.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ErrorHandler es el único punto donde un error se convierte en respuesta HTTP:
// Validation → 400 (duplicado → 409), NotFound → 404, BusinessRule → 409,
// Usage/Internal y errores desconocidos → 500.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: statusCode(fe.Code), Message: fe.Message})
		}

		status, resp := mapError(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("tenant_id", GetTenantID(c)).
				Msg("error no controlado en la petición")
		}
		return c.Status(status).JSON(resp)
	}
}

func mapError(err error) (int, dto.ErrorResponse) {
	resp := dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"}
	de, isDomain := domain.AsError(err)
	if isDomain {
		resp = dto.ErrorResponse{Code: de.Code, Message: de.Message, Details: de.Details}
	}

	switch domain.KindOf(err) {
	case domain.KindValidation:
		if errors.Is(err, domain.ErrDuplicate) {
			if !isDomain {
				resp = dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"}
			}
			return fiber.StatusConflict, resp
		}
		if !isDomain {
			resp = dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
		}
		return fiber.StatusBadRequest, resp
	case domain.KindNotFound:
		if !isDomain {
			resp = dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
		}
		return fiber.StatusNotFound, resp
	case domain.KindBusinessRule:
		if !isDomain {
			resp = dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
		}
		return fiber.StatusConflict, resp
	case domain.KindUsage, domain.KindInternal:
		// El detalle queda en el log; al cliente solo se expone el código.
		resp.Message = "error interno del servidor"
		resp.Details = nil
		return fiber.StatusInternalServerError, resp
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"}
}

func statusCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return "INVALID_BODY"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	}
	return "HTTP_" + strconv.Itoa(status)
}

// bindJSON decodifica el body y aplica las reglas `validate` del DTO.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.Validation("INVALID_BODY", "cuerpo inválido: "+err.Error(), nil)
	}
	return validateStruct(out)
}

func validateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Validation("VALIDATION", err.Error(), nil)
	}
	fields := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe.Namespace())] = fe.Tag()
	}
	return domain.Validation("VALIDATION", "datos inválidos", map[string]any{"fields": fields})
}

// fieldPath quita el nombre del struct raíz: "CreateOrderRequest.items[0].product_id" → "items[0].product_id".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
