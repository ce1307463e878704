package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	echomock "github.com/trezcool/mediateam/apps/mockapi/echo"
	"github.com/trezcool/mediateam/core"
	"github.com/trezcool/mediateam/core/application"
	"github.com/trezcool/mediateam/core/college"
)

const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "12345678"
)

// NewBackend starts an in-memory backend with the admin account and returns its client config.
func NewBackend(t *testing.T, opts ...echomock.Option) (*echomock.Backend, core.BackendConfig) {
	t.Helper()
	opts = append([]echomock.Option{echomock.WithUser(AdminEmail, AdminPassword)}, opts...)
	backend := echomock.New("test-secret", opts...)

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return backend, core.BackendConfig{BaseURL: srv.URL + echomock.BasePath, Timeout: 5 * time.Second}
}

// StaticToken makes the backend hand out token on every login.
func StaticToken(token string) echomock.Option {
	return echomock.WithTokenIssuer(func(echomock.User) (string, error) {
		return token, nil
	})
}

func NewApplication(id, fullName string, status application.Status) application.Application {
	tstamp := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return application.Application{
		ID:               id,
		FullName:         fullName,
		PhoneNumber:      "0999999999",
		College:          "كلية الإعلام",
		Specialization:   "صحافة",
		AcademicYear:     3,
		InterestedFields: []application.InterestedField{{Name: "photography"}, {Name: "montage"}},
		HasExperience:    true,
		PortfolioLinks:   []application.PortfolioLink{{URL: "https://example.com/portfolio"}},
		ReasonToJoin:     "أحب العمل الإعلامي",
		Status:           status,
		CreatedAt:        tstamp,
		UpdatedAt:        tstamp,
	}
}

func NewCollege(id, name string, years int) college.College {
	return college.College{ID: id, Name: name, AcademicYearsCount: years}
}
