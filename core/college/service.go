package college

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/mediateam/core/query"
	"github.com/trezcool/mediateam/core/session"
)

const (
	// Resource names the cached colleges collection.
	Resource  = "colleges"
	saveKind  = "colleges.save"
	deleteKnd = "colleges.delete"
)

type readFunc func(ctx context.Context, key string, dst interface{}, fn query.FetchFunc) error

type Service struct {
	gw       Gateway
	query    *query.Client
	validate *validator.Validate
}

func NewService(gw Gateway, q *query.Client, validate *validator.Validate) *Service {
	return &Service{gw: gw, query: q, validate: validate}
}

// CacheKey is the collection cache key of the session in ctx.
func CacheKey(ctx context.Context) string {
	return query.Key(Resource, session.TokenFromContext(ctx))
}

// List fetches the whole collection from the backend and refreshes the cached copy.
func (svc *Service) List(ctx context.Context) ([]College, error) {
	return svc.list(ctx, svc.query.Refresh)
}

// Current returns the cached collection, fetching it only when nothing is cached.
func (svc *Service) Current(ctx context.Context) ([]College, error) {
	return svc.list(ctx, svc.query.Fetch)
}

func (svc *Service) list(ctx context.Context, read readFunc) ([]College, error) {
	var colleges []College
	err := read(ctx, CacheKey(ctx), &colleges, func(ctx context.Context) (interface{}, error) {
		return svc.gw.ListColleges(ctx)
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing colleges")
	}
	if colleges == nil {
		colleges = []College{}
	}
	return colleges, nil
}

// Get finds a college in the cached collection.
func (svc *Service) Get(ctx context.Context, id string) (College, error) {
	colleges, err := svc.Current(ctx)
	if err != nil {
		return College{}, err
	}
	for _, c := range colleges {
		if c.ID == id {
			return c, nil
		}
	}
	return College{}, ErrNotFound
}

// Save creates a college when target is nil and updates target otherwise.
// Invalid forms never reach the backend; the collection is invalidated only on success.
func (svc *Service) Save(ctx context.Context, target *College, form Form) (College, error) {
	if err := form.Validate(svc.validate); err != nil {
		return College{}, err
	}

	done, err := svc.query.Begin(query.Key(saveKind, session.TokenFromContext(ctx)))
	if err != nil {
		return College{}, err
	}
	defer done()

	var saved College
	if target == nil {
		saved, err = svc.gw.CreateCollege(ctx, form)
		err = errors.Wrap(err, "creating college")
	} else {
		saved, err = svc.gw.UpdateCollege(ctx, target.ID, form)
		err = errors.Wrap(err, "updating college")
	}
	if err != nil {
		return College{}, err
	}

	if err := svc.query.Invalidate(ctx, CacheKey(ctx)); err != nil {
		return saved, err
	}
	return saved, nil
}

// Delete removes the college; the caller is responsible for the confirmation step.
func (svc *Service) Delete(ctx context.Context, id string) error {
	done, err := svc.query.Begin(query.Key(deleteKnd, session.TokenFromContext(ctx)))
	if err != nil {
		return err
	}
	defer done()

	if err := svc.gw.DeleteCollege(ctx, id); err != nil {
		return errors.Wrap(err, "deleting college")
	}
	return svc.query.Invalidate(ctx, CacheKey(ctx))
}
