// Package provider turns questions into answers using a large language model.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Generator produces an answer for a question.
type Generator interface {
	Generate(ctx context.Context, question string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, question string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, question string) (string, error) {
	return f(ctx, question)
}

// Category is the coarse reason a generation failed.
type Category uint8

const (
	CategoryOther Category = iota
	CategoryAuth
	CategoryRateLimit
	CategoryModel
	CategoryTimeout
)

func (c Category) String() string {
	switch c {
	case CategoryOther:
		return "other"
	case CategoryAuth:
		return "auth"
	case CategoryRateLimit:
		return "rate_limit"
	case CategoryModel:
		return "model"
	case CategoryTimeout:
		return "timeout"
	}
	return fmt.Sprintf("Category(%d)", c)
}

// Error is a failed generation with its category and, when known, the HTTP status.
type Error struct {
	Category   Category
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s error (status %d): %v", e.Category, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s error: %v", e.Category, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with its category and status code.
func NewError(err error) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return &Error{
		Category:   Classify(err),
		StatusCode: statusCode(err),
		Err:        err,
	}
}

// Classify determines the category of err. Structured information from the
// OpenAI client is preferred; the error text is only inspected when the
// status code says nothing useful.
func Classify(err error) Category {
	if err == nil {
		return CategoryOther
	}

	var pe *Error
	if errors.As(err, &pe) {
		return pe.Category
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTimeout
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if c := classifyStatus(apiErr.HTTPStatusCode); c != CategoryOther {
			return c
		}
		if code, ok := apiErr.Code.(string); ok {
			switch code {
			case "invalid_api_key":
				return CategoryAuth
			case "model_not_found":
				return CategoryModel
			case "rate_limit_exceeded":
				return CategoryRateLimit
			}
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if c := classifyStatus(reqErr.HTTPStatusCode); c != CategoryOther {
			return c
		}
	}

	return classifyMessage(err.Error())
}

func classifyStatus(code int) Category {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return CategoryAuth
	case http.StatusTooManyRequests:
		return CategoryRateLimit
	case http.StatusNotFound:
		return CategoryModel
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return CategoryTimeout
	}
	return CategoryOther
}

// classifyMessage is the fallback for errors that carry nothing but text.
func classifyMessage(msg string) Category {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "invalid_api_key"):
		return CategoryAuth
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return CategoryRateLimit
	case strings.Contains(msg, "model") && (strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist")):
		return CategoryModel
	}
	return CategoryOther
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
