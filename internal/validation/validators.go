package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/benvon/virality-checker/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but log if they do
	if err := Validate.RegisterValidation("rating", validateRating); err != nil {
		panic(fmt.Sprintf("failed to register rating validator: %v", err))
	}
	if err := Validate.RegisterValidation("tone", validateTone); err != nil {
		panic(fmt.Sprintf("failed to register tone validator: %v", err))
	}
	if err := Validate.RegisterValidation("impact", validateImpact); err != nil {
		panic(fmt.Sprintf("failed to register impact validator: %v", err))
	}
}

// validateRating accepts any known Rating regardless of case
func validateRating(fl validator.FieldLevel) bool {
	_, ok := models.ParseRating(fl.Field().String())
	return ok
}

// validateTone accepts any known Tone regardless of case
func validateTone(fl validator.FieldLevel) bool {
	_, ok := models.ParseTone(fl.Field().String())
	return ok
}

// validateImpact accepts high, medium or low regardless of case
func validateImpact(fl validator.FieldLevel) bool {
	_, ok := models.ParseImpact(fl.Field().String())
	return ok
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateAnalysisRequest checks an analysis request and returns a user-facing error.
// Content is measured in characters, not bytes.
func ValidateAnalysisRequest(req *models.AnalysisRequest) error {
	if strings.TrimSpace(req.Content) == "" {
		return fmt.Errorf("content is required")
	}
	if err := Validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.Field() {
				case "Content":
					return fmt.Errorf("content exceeds %d characters", models.MaxContentLength)
				case "FollowerCount":
					return fmt.Errorf("followerCount must be a non-negative number")
				}
			}
		}
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

// ValidateAnalysisResult checks the structural constraints of an LLM result
func ValidateAnalysisResult(result *models.AnalysisResult) error {
	if err := Validate.Struct(result); err != nil {
		return fmt.Errorf("invalid analysis: %w", err)
	}
	return nil
}
