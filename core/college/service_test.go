package college

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mediateam/core"
	"github.com/trezcool/mediateam/core/query"
	"github.com/trezcool/mediateam/core/session"
	cachesvc "github.com/trezcool/mediateam/services/cache"
)

type gatewayMock struct {
	listFn   func(ctx context.Context) ([]College, error)
	createFn func(ctx context.Context, form Form) (College, error)
	updateFn func(ctx context.Context, id string, form Form) (College, error)
	deleteFn func(ctx context.Context, id string) error
	lists    int
	creates  int
}

func (m *gatewayMock) ListColleges(ctx context.Context) ([]College, error) {
	m.lists++
	return m.listFn(ctx)
}

func (m *gatewayMock) CreateCollege(ctx context.Context, form Form) (College, error) {
	m.creates++
	return m.createFn(ctx, form)
}

func (m *gatewayMock) UpdateCollege(ctx context.Context, id string, form Form) (College, error) {
	return m.updateFn(ctx, id, form)
}

func (m *gatewayMock) DeleteCollege(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func newValidator() (*validator.Validate, func(error) map[string]string) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate, func(err error) map[string]string { return core.FieldErrors(err, translator) }
}

// newStore returns a mock backed by an in-memory slice.
func newStore(colleges ...College) *gatewayMock {
	m := &gatewayMock{}
	m.listFn = func(context.Context) ([]College, error) {
		return append([]College(nil), colleges...), nil
	}
	m.createFn = func(_ context.Context, form Form) (College, error) {
		c := College{ID: "new-id", Name: form.Name, AcademicYearsCount: form.AcademicYearsCount}
		colleges = append(colleges, c)
		return c, nil
	}
	m.updateFn = func(_ context.Context, id string, form Form) (College, error) {
		for i := range colleges {
			if colleges[i].ID == id {
				colleges[i].Name = form.Name
				colleges[i].AcademicYearsCount = form.AcademicYearsCount
				return colleges[i], nil
			}
		}
		return College{}, core.NewAPIError(core.KindNotFound, http.StatusNotFound, "الكلية غير موجودة", nil)
	}
	m.deleteFn = func(_ context.Context, id string) error {
		for i := range colleges {
			if colleges[i].ID == id {
				colleges = append(colleges[:i], colleges[i+1:]...)
				return nil
			}
		}
		return core.NewAPIError(core.KindNotFound, http.StatusNotFound, "الكلية غير موجودة", nil)
	}
	return m
}

func newTestService(gw Gateway) *Service {
	validate, _ := newValidator()
	return NewService(gw, query.NewClient(cachesvc.NewLRUCache(16, time.Minute)), validate)
}

func testContext() context.Context {
	return session.NewContext(context.Background(), session.NewMemoryHolder("abc"))
}

func TestNewForm(t *testing.T) {
	assert.Equal(t, Form{AcademicYearsCount: 5}, NewForm(nil))
	target := &College{ID: "1", Name: "كلية الطب", AcademicYearsCount: 6}
	assert.Equal(t, Form{Name: "كلية الطب", AcademicYearsCount: 6}, NewForm(target))
}

func TestForm_Validate(t *testing.T) {
	validate, fieldErrors := newValidator()
	tests := []struct {
		name    string
		form    Form
		wantErr map[string]string
	}{
		{name: "valid", form: Form{Name: "كلية الهندسة", AcademicYearsCount: 5}},
		{name: "two chars", form: Form{Name: "طب", AcademicYearsCount: 1}},
		{name: "max years", form: Form{Name: "كلية الطب", AcademicYearsCount: 10}},
		{name: "short name", form: Form{Name: "ك", AcademicYearsCount: 5}, wantErr: map[string]string{"name": "اسم الكلية قصير جدًا"}},
		{name: "padded short name", form: Form{Name: "  ك  ", AcademicYearsCount: 5}, wantErr: map[string]string{"name": "اسم الكلية قصير جدًا"}},
		{name: "no years", form: Form{Name: "كلية الطب"}, wantErr: map[string]string{"academicYearsCount": "عدد السنوات يجب أن يكون بين 1 و 10"}},
		{name: "too many years", form: Form{Name: "كلية الطب", AcademicYearsCount: 11}, wantErr: map[string]string{"academicYearsCount": "عدد السنوات يجب أن يكون بين 1 و 10"}},
		{
			name: "both", form: Form{Name: "", AcademicYearsCount: -1},
			wantErr: map[string]string{"name": "اسم الكلية قصير جدًا", "academicYearsCount": "عدد السنوات يجب أن يكون بين 1 و 10"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := tt.form
			err := form.Validate(validate)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantErr, fieldErrors(err))
		})
	}
}

func TestService_Save_create(t *testing.T) {
	ctx := testContext()
	gw := newStore(College{ID: "1", Name: "كلية الطب", AcademicYearsCount: 6})
	svc := newTestService(gw)

	colleges, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, colleges, 1)

	saved, err := svc.Save(ctx, nil, Form{Name: " كلية الهندسة ", AcademicYearsCount: 5})
	require.NoError(t, err)
	assert.Equal(t, "كلية الهندسة", saved.Name)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, 1, gw.creates)

	colleges, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, gw.lists, "a save must invalidate the collection")
	assert.Contains(t, colleges, College{ID: saved.ID, Name: "كلية الهندسة", AcademicYearsCount: 5})
}

func TestService_Save_update(t *testing.T) {
	ctx := testContext()
	gw := newStore(College{ID: "1", Name: "كلية الطب", AcademicYearsCount: 6})
	svc := newTestService(gw)

	target, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	form := NewForm(&target)
	form.AcademicYearsCount = 7

	_, err = svc.Save(ctx, &target, form)
	require.NoError(t, err)
	assert.Zero(t, gw.creates)

	colleges, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []College{{ID: "1", Name: "كلية الطب", AcademicYearsCount: 7}}, colleges)
}

func TestService_Save_invalid(t *testing.T) {
	ctx := testContext()
	gw := newStore()
	svc := newTestService(gw)

	_, err := svc.List(ctx)
	require.NoError(t, err)

	_, err = svc.Save(ctx, nil, Form{Name: "ك", AcademicYearsCount: 5})
	_, ok := err.(validator.ValidationErrors)
	assert.True(t, ok, "want validation errors, got %v", err)
	assert.Zero(t, gw.creates, "invalid forms never reach the backend")

	_, err = svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, gw.lists, "a failed save must not invalidate")
}

func TestService_Save_rejected(t *testing.T) {
	ctx := testContext()
	gw := newStore()
	gw.createFn = func(context.Context, Form) (College, error) {
		return College{}, core.NewAPIError(core.KindRejected, http.StatusConflict, "الكلية موجودة مسبقًا", nil)
	}
	svc := newTestService(gw)

	_, err := svc.Save(ctx, nil, Form{Name: "كلية الطب", AcademicYearsCount: 6})
	require.Error(t, err)
	assert.Equal(t, "الكلية موجودة مسبقًا", core.ErrorMessage(err, ""))
}

func TestService_Save_inFlight(t *testing.T) {
	ctx := testContext()
	gw := newStore()
	started, release := make(chan struct{}), make(chan struct{})
	gw.createFn = func(_ context.Context, form Form) (College, error) {
		close(started)
		<-release
		return College{ID: "1", Name: form.Name, AcademicYearsCount: form.AcademicYearsCount}, nil
	}
	svc := newTestService(gw)

	errc := make(chan error, 1)
	go func() {
		_, err := svc.Save(ctx, nil, Form{Name: "كلية الطب", AcademicYearsCount: 6})
		errc <- err
	}()
	<-started

	_, err := svc.Save(ctx, nil, Form{Name: "كلية الطب", AcademicYearsCount: 6})
	assert.Equal(t, core.ErrInFlight, errors.Cause(err))

	close(release)
	require.NoError(t, <-errc)
	assert.Equal(t, 1, gw.creates)
}

func TestService_Delete(t *testing.T) {
	ctx := testContext()
	gw := newStore(
		College{ID: "1", Name: "كلية الطب", AcademicYearsCount: 6},
		College{ID: "2", Name: "كلية الهندسة", AcademicYearsCount: 5},
	)
	svc := newTestService(gw)

	require.NoError(t, svc.Delete(ctx, "1"))
	colleges, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []College{{ID: "2", Name: "كلية الهندسة", AcademicYearsCount: 5}}, colleges)

	err = svc.Delete(ctx, "missing")
	require.Error(t, err)
	apiErr, ok := core.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, core.KindNotFound, apiErr.Kind)

	colleges, err = svc.Current(ctx)
	require.NoError(t, err)
	assert.Len(t, colleges, 1)
	assert.Equal(t, 1, gw.lists, "a failed delete must not invalidate")
}

func TestService_List_refetches(t *testing.T) {
	ctx := testContext()
	gw := newStore(College{ID: "1", Name: "كلية الطب", AcademicYearsCount: 6})
	svc := newTestService(gw)

	_, err := svc.List(ctx)
	require.NoError(t, err)

	// another session adds a college behind this one's back
	_, err = gw.CreateCollege(ctx, Form{Name: "كلية الهندسة", AcademicYearsCount: 5})
	require.NoError(t, err)

	colleges, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Len(t, colleges, 1)
	assert.Equal(t, 1, gw.lists, "reading the current collection must not refetch")

	colleges, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, colleges, 2)
	assert.Equal(t, 2, gw.lists)
}

func TestService_Get(t *testing.T) {
	ctx := testContext()
	svc := newTestService(newStore(College{ID: "1", Name: "كلية الطب", AcademicYearsCount: 6}))

	_, err := svc.Get(ctx, "2")
	assert.Equal(t, ErrNotFound, err)
}

func TestCacheKey_perSession(t *testing.T) {
	a := session.NewContext(context.Background(), session.NewMemoryHolder("a"))
	b := session.NewContext(context.Background(), session.NewMemoryHolder("b"))
	assert.NotEqual(t, CacheKey(a), CacheKey(b))
}
