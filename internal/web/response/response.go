// Package response renders JSON bodies and the error envelope of the admin API.
package response

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/paging"
)

const (
	// KeyError holds the human readable message of an error envelope.
	KeyError = "error"
	// KeyCode holds the machine readable code of an error envelope.
	KeyCode = "code"
	// KeyFields maps invalid request fields onto the failed validation rule.
	KeyFields = "fields"
)

var validate = newValidator() //nolint:gochecknoglobals

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names in the fields map
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0] //nolint:mnd
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// ErrorHandler is the fiber error handler rendering {error, code, ...details}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, body := Envelope(err)

	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("path", c.Path()).Int("status", status).Msg("request rejected")
	}

	return c.Status(status).JSON(body)
}

// Envelope returns the status and body rendered for err.
func Envelope(err error) (int, fiber.Map) {
	var (
		appErr    *apperr.Error
		fiberErr  *fiber.Error
		validErrs validator.ValidationErrors
	)

	switch {
	case errors.As(err, &validErrs):
		fields := make(map[string]string, len(validErrs))
		for _, fe := range validErrs {
			fields[fe.Field()] = fe.Tag()
		}

		return fiber.StatusBadRequest, fiber.Map{
			KeyError:  "validation failed",
			KeyCode:   apperr.KindValidationFailed,
			KeyFields: fields,
		}

	case errors.As(err, &appErr):
		body := fiber.Map{}
		for k, v := range appErr.Details {
			body[k] = v
		}

		msg := appErr.Message
		if msg == "" {
			msg = strings.ToLower(strings.ReplaceAll(string(appErr.Kind), "_", " "))
		}

		// internal causes are never echoed
		body[KeyError] = msg
		body[KeyCode] = appErr.Kind

		return apperr.Status(appErr.Kind), body

	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiber.Map{
			KeyError: fiberErr.Message,
			KeyCode:  codeForStatus(fiberErr.Code),
		}

	default:
		return fiber.StatusInternalServerError, fiber.Map{
			KeyError: "internal error",
			KeyCode:  apperr.KindInternal,
		}
	}
}

// StatusOf returns the status ErrorHandler renders for err.
func StatusOf(err error) int {
	status, _ := Envelope(err)

	return status
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return string(apperr.KindValidationFailed)
	case fiber.StatusUnauthorized:
		return string(apperr.KindUnauthorized)
	case fiber.StatusForbidden:
		return string(apperr.KindForbidden)
	case fiber.StatusNotFound:
		return string(apperr.KindNotFound)
	case fiber.StatusServiceUnavailable:
		return string(apperr.KindStorageUnavailable)
	}

	if text := http.StatusText(status); text != "" && status < fiber.StatusInternalServerError {
		return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
	}

	return string(apperr.KindInternal)
}

// Bind parses the JSON body into out and validates it.
func Bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("invalid request body")
	}

	return Validate(out)
}

// Validate runs the struct validation rules of v.
func Validate(v any) error {
	return validate.Struct(v) //nolint:wrapcheck
}

// PageQuery reads page and limit from the query string.
func PageQuery(c *fiber.Ctx) paging.Query {
	return paging.Query{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", paging.DefaultLimit),
	}.Normalize()
}

// Pagination describes the page rendered next to a list.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// NewPagination derives the pagination block of a page.
func NewPagination[T any](p *paging.Page[T]) Pagination {
	limit := int64(p.Query.Limit)

	var pages int64
	if limit > 0 {
		pages = (p.Total + limit - 1) / limit
	}

	return Pagination{Page: p.Query.Page, Limit: p.Query.Limit, Total: p.Total, TotalPages: pages}
}

// Page renders one page of a list as {key: items, pagination}.
func Page[T any](c *fiber.Ctx, key string, p *paging.Page[T]) error {
	return c.JSON(fiber.Map{
		key:          p.Items,
		"pagination": NewPagination(p),
	})
}

// Success renders {success: true, message} merged with extra fields.
func Success(c *fiber.Ctx, status int, message string, extra fiber.Map) error {
	body := fiber.Map{"success": true}
	if message != "" {
		body["message"] = message
	}

	for k, v := range extra {
		body[k] = v
	}

	return c.Status(status).JSON(body)
}

// QueryBool reads an optional boolean query parameter. Absent or unparsable values yield nil.
func QueryBool(c *fiber.Ctx, key string) *bool {
	switch strings.ToLower(c.Query(key)) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	default:
		return nil
	}
}
