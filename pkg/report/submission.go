package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shadowbane/home-flood-report/pkg/imagestore"
	"github.com/shadowbane/home-flood-report/pkg/models"
)

var (
	// ErrMissingAddress means nothing was submitted; it is not a failure.
	ErrMissingAddress = errors.New("street address is required")
	// ErrInvalidSubmission wraps every field validation failure.
	ErrInvalidSubmission = errors.New("invalid submission")
)

// Submission is one filled-in report form.
type Submission struct {
	Address     string           `validate:"required"`
	Cause       models.CauseType `validate:"cause"`
	CustomCause string           `validate:"max=255"`
	Severity    int              `validate:"min=1,max=5"`

	// Image is nil when no photo was uploaded.
	Image         io.Reader `validate:"-"`
	ImageFilename string    `validate:"-"`
}

// Type returns the cause text to store: the free-text value when Other was
// picked, falling back to Other when that is left blank.
func (s Submission) Type() string {
	if s.Cause == models.CauseOther {
		if custom := strings.TrimSpace(s.CustomCause); custom != "" {
			return custom
		}
	}
	return string(s.Cause)
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cause", func(fl validator.FieldLevel) bool {
		return models.CauseType(fl.Field().String()).IsKnown()
	})
	return v
}

func (s *Service) validate(sub Submission) error {
	if sub.Image != nil && !imagestore.IsSupported(sub.ImageFilename) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidSubmission, imagestore.ErrUnsupportedImage, sub.ImageFilename)
	}

	err := s.validator.Struct(sub)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidSubmission, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Severity":
		return fmt.Sprintf("severity must be between %d and %d", models.MinSeverity, models.MaxSeverity)
	case "Cause":
		return fmt.Sprintf("unknown flood cause %q", fe.Value())
	case "CustomCause":
		return "custom cause is too long"
	default:
		return fmt.Sprintf("%s failed on %s", strings.ToLower(fe.Field()), fe.Tag())
	}
}
