// Package web defines common components for a web application.
package web

import (
	"github.com/go-playground/validator/v10"
)

// Response holds the common response type for all APIs.
type Response struct {
	AccessToken          string `json:"accessToken,omitempty"`
	AccessTokenExpiresAt string `json:"accessTokenExpiresAt,omitempty"`
	Data                 any    `json:"data,omitempty"`
	Error                string `json:"error,omitempty"`
}

// Error wraps a given err into json frinedly struct.
func Error(err error) Response {
	return Response{Error: err.Error()}
}

// GetErrorMsg returns a readable message for the first failed validation.
func GetErrorMsg(ve validator.ValidationErrors) string {
	field := ve[0]

	switch field.Tag() {
	case "required":
		return field.Field() + " is required"
	case "email":
		return field.Field() + " must be a valid email address"
	case "min":
		return field.Field() + " must be at least " + field.Param() + " characters"
	case "max":
		return field.Field() + " must be at most " + field.Param() + " characters"
	case "gt":
		return field.Field() + " must be greater than " + field.Param()
	case "oneof":
		return field.Field() + " must be one of " + field.Param()
	case "currency":
		return field.Field() + " is not supported"
	}

	return field.Field() + " is invalid"
}
