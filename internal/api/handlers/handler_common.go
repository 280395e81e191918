package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/logging"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	badRequestErrors = []error{
		domain.ErrInvalidCredentials,
		domain.ErrAlreadyInFavorites,
		domain.ErrNotInFavorites,
		domain.ErrAlreadyInShoppingCart,
		domain.ErrNotInShoppingCart,
		domain.ErrAlreadySubscribed,
		domain.ErrNotSubscribed,
		domain.ErrSelfSubscription,
		domain.ErrEmailAlreadyUsed,
		domain.ErrUsernameAlreadyUsed,
		domain.ErrInvalidImageFormat,
		domain.ErrInvalidBody,
	}

	unauthorizedErrors = []error{
		domain.ErrAuthRequired,
		domain.ErrTokenNotFound,
		domain.ErrTokenInvalid,
		domain.ErrTokenExpired,
		domain.ErrTokenRevoked,
	}

	forbiddenErrors = []error{
		domain.ErrUnauthorizedRecipeAccess,
		domain.ErrUserNotAllowed,
	}

	notFoundErrors = []error{
		gorm.ErrRecordNotFound,
		domain.ErrParseID,
		domain.ErrRecipeNotFound,
		domain.ErrUserNotFound,
		domain.ErrTagNotFound,
		domain.ErrIngredientNotFound,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func statusFromError(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest
	case isAny(err, badRequestErrors):
		return fiber.StatusBadRequest
	case isAny(err, unauthorizedErrors):
		return fiber.StatusUnauthorized
	case isAny(err, forbiddenErrors):
		return fiber.StatusForbidden
	case isAny(err, notFoundErrors):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// errorResponse renders a service error with the status its kind maps to.
// Unexpected errors are logged and hidden behind a generic message.
func errorResponse(c *fiber.Ctx, message string, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return presenters.ValidationErrorResponse(c, message, verr.Fields)
	}

	status := statusFromError(err)
	if status == fiber.StatusInternalServerError {
		logging.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg(message)
		return presenters.ErrorResponse(c, status, message, domain.ErrInternal)
	}
	return presenters.ErrorResponse(c, status, message, err)
}

// validateStruct runs struct tag validation and returns failures as a
// *domain.ValidationError.
func validateStruct(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	if fields, ok := utils.ValidationErrors(err); ok {
		return &domain.ValidationError{Fields: fields}
	}
	verr := domain.NewValidationError()
	verr.Add("non_field_errors", err.Error())
	return verr
}

// parseBody decodes the JSON body into req. A value of the wrong JSON type is
// reported under its field like any other validation failure.
func parseBody(c *fiber.Ctx, req any) error {
	err := c.BodyParser(req)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		verr := domain.NewValidationError()
		verr.Add(bodyField(req, typeErr), fmt.Sprintf("expected %s, got %s", jsonTypeName(typeErr.Type), typeErr.Value))
		return verr
	}
	return domain.ErrInvalidBody
}

// bodyField maps a decode error back to the top-level JSON key of req. The
// decoder may name the Go field, the JSON key or only the nested struct.
func bodyField(req any, typeErr *json.UnmarshalTypeError) string {
	t := reflect.TypeOf(req)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return "non_field_errors"
	}

	first := typeErr.Field
	if i := strings.IndexAny(first, ".["); i >= 0 {
		first = first[:i]
	}
	if first != "" {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if name := jsonName(f); first == f.Name || strings.EqualFold(first, name) {
				return name
			}
		}
	}

	if typeErr.Struct != "" {
		for i := 0; i < t.NumField(); i++ {
			elem := t.Field(i).Type
			for elem.Kind() == reflect.Pointer || elem.Kind() == reflect.Slice || elem.Kind() == reflect.Array {
				elem = elem.Elem()
			}
			if elem.Name() == typeErr.Struct {
				return jsonName(t.Field(i))
			}
		}
	}
	return "non_field_errors"
}

func jsonName(f reflect.StructField) string {
	if name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]; name != "" && name != "-" {
		return name
	}
	return f.Name
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "a value"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "a list"
	default:
		return "an object"
	}
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrParseID
	}
	return uint(id), nil
}

func parsePagination(c *fiber.Ctx) domain.PaginationRequest {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(domain.DefaultPageSize)))
	if err != nil || limit < 1 {
		limit = domain.DefaultPageSize
	}

	return domain.PaginationRequest{Page: page, Limit: limit}.Normalize()
}

func queryFlag(c *fiber.Ctx, key string) bool {
	switch strings.ToLower(c.Query(key)) {
	case "1", "true":
		return true
	default:
		return false
	}
}

// queryList collects a repeatable query parameter. Comma separated values
// are accepted too.
func queryList(c *fiber.Ctx, key string) []string {
	var values []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, v := range strings.Split(string(raw), ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}
