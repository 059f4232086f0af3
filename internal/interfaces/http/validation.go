package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Usar el nombre JSON del campo en los mensajes.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodifica el JSON y aplica las reglas validate:"...". Los fallos son ErrInvalidInput.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" es requerido")
		case "oneof":
			parts = append(parts, fe.Field()+" debe ser uno de: "+fe.Param())
		case "min", "gt":
			parts = append(parts, fe.Field()+" fuera de rango (mínimo "+fe.Param()+")")
		case "max":
			parts = append(parts, fe.Field()+" fuera de rango (máximo "+fe.Param()+")")
		default:
			parts = append(parts, fe.Field()+" inválido ("+fe.Tag()+")")
		}
	}
	return strings.Join(parts, "; ")
}

// pageFromQuery lee limit/offset y aplica las reglas de dto.PageRequest; sin limit se usan 20.
func pageFromQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, fmt.Errorf("%w: limit/offset deben ser enteros", domain.ErrInvalidInput)
	}
	if err := validate.Struct(page); err != nil {
		return page, fmt.Errorf("%w: %s", domain.ErrInvalidInput, validationMessage(err))
	}
	page.DefaultPage()
	return page, nil
}

// dateRangeFromQuery lee from/to en RFC3339 o YYYY-MM-DD. Un "to" sin hora cubre el día completo.
func dateRangeFromQuery(c *fiber.Ctx) (from, to *time.Time, err error) {
	if s := c.Query("from"); s != "" {
		t, _, err := parseDate(s)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: from %q", domain.ErrInvalidInput, s)
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, dateOnly, err := parseDate(s)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: to %q", domain.ErrInvalidInput, s)
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		to = &t
	}
	return from, to, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	return t, true, err
}
