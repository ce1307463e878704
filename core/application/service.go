package application

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/mediateam/core/query"
	"github.com/trezcool/mediateam/core/session"
)

// Resource names the cached applications collection.
const Resource = "applications"

type Service struct {
	gw    Gateway
	query *query.Client
}

func NewService(gw Gateway, q *query.Client) *Service {
	return &Service{gw: gw, query: q}
}

func CacheKey(ctx context.Context) string {
	return query.Key(Resource, session.TokenFromContext(ctx))
}

// List fetches every application from the backend. There is no paging.
func (svc *Service) List(ctx context.Context) ([]Application, error) {
	return svc.list(ctx, svc.query.Refresh)
}

// Current returns the cached applications, fetching them only when nothing is cached.
func (svc *Service) Current(ctx context.Context) ([]Application, error) {
	return svc.list(ctx, svc.query.Fetch)
}

func (svc *Service) list(ctx context.Context, read func(context.Context, string, interface{}, query.FetchFunc) error) ([]Application, error) {
	var apps []Application
	err := read(ctx, CacheKey(ctx), &apps, func(ctx context.Context) (interface{}, error) {
		return svc.gw.ListApplications(ctx)
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing applications")
	}
	if apps == nil {
		apps = []Application{}
	}
	return apps, nil
}

// Select picks one application out of the cached collection.
func (svc *Service) Select(ctx context.Context, id string) (Application, error) {
	apps, err := svc.Current(ctx)
	if err != nil {
		return Application{}, err
	}
	for _, app := range apps {
		if app.ID == id {
			return app, nil
		}
	}
	return Application{}, ErrNotFound
}
