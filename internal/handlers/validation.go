package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var fieldMessages = map[string]string{
	"Name.required":     "Name is required",
	"Email.required":    "Email is required",
	"Email.contains":    "Invalid email",
	"Password.required": "Password is required",
	"Password.min":      "Password must be at least 6 characters",
	"Phone.required":    "Phone number must be 10 digits",
	"Phone.len":         "Phone number must be 10 digits",
	"Phone.numeric":     "Phone number must be 10 digits",
	"OTP.required":      "Enter 6-digit OTP",
	"Quantity.required": "quantity is required",
	"Quantity.min":      "quantity must be at least 1",
}

// validationMessages turns binding errors into user-facing messages, one per
// failing field.
func validationMessages(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{"invalid body"}
	}

	details := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		if message, ok := fieldMessages[fieldError.Field()+"."+fieldError.Tag()]; ok {
			details = append(details, message)
			continue
		}
		field := lowerCamel(fieldError.Field())
		switch fieldError.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", field))
		default:
			details = append(details, fmt.Sprintf("%s is invalid", field))
		}
	}
	return details
}

func respondValidationError(c *gin.Context, err error) {
	details := validationMessages(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   details[0],
		"details": details,
	})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
