// Package college manages the colleges that applicants choose from.
package college

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/mediateam/core"
)

// DefaultAcademicYearsCount pre-fills the creation form.
const DefaultAcademicYearsCount = 5

var ErrNotFound = errors.New("college not found")

type (
	College struct {
		ID                 string `json:"id"`
		Name               string `json:"name"`
		AcademicYearsCount int    `json:"academicYearsCount"`
	}

	// Form is the create/update payload.
	Form struct {
		Name               string `json:"name" form:"name" validate:"collegename"`
		AcademicYearsCount int    `json:"academicYearsCount" form:"academicYearsCount" validate:"yearscount"`
	}

	// Gateway is the backend port for colleges.
	Gateway interface {
		ListColleges(ctx context.Context) ([]College, error)
		CreateCollege(ctx context.Context, form Form) (College, error)
		UpdateCollege(ctx context.Context, id string, form Form) (College, error)
		DeleteCollege(ctx context.Context, id string) error
	}
)

// NewForm returns blank defaults without an editing target, or the target's values.
func NewForm(target *College) Form {
	if target == nil {
		return Form{AcademicYearsCount: DefaultAcademicYearsCount}
	}
	return Form{Name: target.Name, AcademicYearsCount: target.AcademicYearsCount}
}

func (f *Form) Validate(validate *validator.Validate) error {
	f.Name = core.CleanString(f.Name)
	return validate.Struct(f)
}
