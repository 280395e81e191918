package domain

import (
	"errors"
	"sort"
	"strings"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
	MaxPage         = 1_000_000
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageFailedNotFound       = "resource not found"
	MessageSuccessPing          = "pong"

	ErrParseID            = errors.New("failed to parse id")
	ErrUserNotAllowed     = errors.New("user not allowed")
	ErrTokenNotFound      = errors.New("failed to token not found")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAuthRequired       = errors.New("authentication credentials were not provided")
	ErrInternal           = errors.New("internal server error")
	ErrInvalidImageFormat = errors.New("invalid image format")
	ErrInvalidBody        = errors.New("request body is not valid JSON")
)

// ValidationError carries per-field messages. It is returned whole: nothing
// is written when a request fails validation.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns nil when no field failed, so callers can `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

type (
	PaginationRequest struct {
		Page  int
		Limit int
	}

	PaginatedResponse[T any] struct {
		Count    int64 `json:"count"`
		Next     *int  `json:"next"`
		Previous *int  `json:"previous"`
		Results  []T   `json:"results"`
	}
)

func (p PaginationRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Normalize clamps page and limit into sane bounds. Page is capped so that
// offsets stay far from int overflow.
func (p PaginationRequest) Normalize() PaginationRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func NewPaginatedResponse[T any](results []T, count int64, p PaginationRequest) PaginatedResponse[T] {
	if results == nil {
		results = []T{}
	}
	res := PaginatedResponse[T]{
		Count:   count,
		Results: results,
	}
	if int64(p.Page)*int64(p.Limit) < count {
		next := p.Page + 1
		res.Next = &next
	}
	if p.Page > 1 {
		prev := p.Page - 1
		res.Previous = &prev
	}
	return res
}
