package httpserver

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cinescope/cinescope/internal/domain"
)

var (
	imageURLPattern   = regexp.MustCompile(`(?i)^https?://.+\.(jpg|jpeg|png|gif|webp)$`)
	youtubeURLPattern = regexp.MustCompile(`^https?://(www\.)?(youtube\.com|youtu\.be)/.+`)
	usernamePattern   = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("genretag", func(fl validator.FieldLevel) bool {
		return domain.IsGenre(fl.Field().String())
	})
	_ = v.RegisterValidation("releaseyear", func(fl validator.FieldLevel) bool {
		year := int(fl.Field().Int())
		return year >= 1888 && year <= time.Now().Year()+5
	})
	_ = v.RegisterValidation("imageurl", func(fl validator.FieldLevel) bool {
		return imageURLPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("youtubeurl", func(fl validator.FieldLevel) bool {
		return youtubeURLPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("usernamechars", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return v
}

// checkStruct validates a request DTO and converts tag failures into
// itemized field errors for the error envelope.
func checkStruct(dst interface{}) []fieldError {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldError{{Field: "body", Message: "invalid request payload"}}
	}

	fields := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters or items", fe.Param())
	case "max":
		return fmt.Sprintf("cannot exceed %s characters or items", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("cannot exceed %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid id"
	case "genretag":
		return "must be a recognized genre"
	case "releaseyear":
		return fmt.Sprintf("must be between 1888 and %d", time.Now().Year()+5)
	case "imageurl":
		return "must be a valid image URL"
	case "youtubeurl":
		return "must be a valid YouTube URL"
	case "usernamechars":
		return "can only contain letters, numbers, and underscores"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
