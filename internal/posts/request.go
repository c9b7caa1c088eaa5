package posts

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreatePostRequest is the body of POST /api/admin/posts.
type CreatePostRequest struct {
	Title   string `json:"title"   validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

// UpdatePostRequest is the body of PATCH /api/admin/posts/{id}. ID is
// optional; when given it must match the path.
type UpdatePostRequest struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"   validate:"required,max=200"`
	Content string    `json:"content" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var messages = map[string]string{
	"required": "is required",
	"max":      "must be at most %s characters",
}

// Validate checks req against its struct tags and returns a *ValidationError
// describing every failing field.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		if strings.Contains(msg, "%s") {
			msg = fmt.Sprintf(msg, fe.Param())
		}
		fields[fe.Field()] = msg
	}
	return &ValidationError{Fields: fields}
}
