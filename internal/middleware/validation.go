package middleware

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/nnpgpt/internal/app/models/dto"
	"github.com/yigit/nnpgpt/internal/pkg/validation"
)

// RegisterValidators installs the custom tags on gin's validator engine
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return validation.RegisterRules(v)
}

// ValidatePathParam rejects requests whose path parameter does not match pattern
func ValidatePathParam(name string, pattern *regexp.Regexp) gin.HandlerFunc {
	return func(c *gin.Context) {
		check := validation.NewStringValidation(c.Param(name)).
			WithMaxLength(64).
			WithPattern(pattern)
		if !check.Validate() {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid path parameter").
				WithField(name)
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		c.Next()
	}
}
