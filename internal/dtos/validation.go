package dtos

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/jobtrack/internal/models"
)

// emailPattern matches local@domain.tld with no whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterValidators adds the enum and text rules used by the binding tags in this package.
func RegisterValidators(v *validator.Validate) error {
	rules := map[string]func(string) bool{
		"stage":       models.IsStage,
		"career_type": models.IsCareerType,
		"source":      models.IsSource,
		"event_type":  models.IsEventType,
		"notblank":    func(s string) bool { return strings.TrimSpace(s) != "" },
		"useremail":   func(s string) bool { return emailPattern.MatchString(strings.TrimSpace(s)) },
	}
	for tag, ok := range rules {
		ok := ok
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return ok(fl.Field().String())
		})
		if err != nil {
			return err
		}
	}
	return nil
}
