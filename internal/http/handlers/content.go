package handlers

import (
	"context"
	"net/http"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/validation"
)

// contentRepo is the list/create/update/delete shape shared by the site
// content repositories.
type contentRepo[T any] interface {
	Create(ctx context.Context, item *T) error
	List(ctx context.Context, params domain.ListParams) ([]T, int, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id string) error
}

// ContentHandlers are the routes of one content type.
type ContentHandlers struct {
	PublicList http.HandlerFunc
	List       http.HandlerFunc
	Create     http.HandlerFunc
	Update     http.HandlerFunc
	Delete     http.HandlerFunc
}

type contentKind[T any] struct {
	name string
	repo func() contentRepo[T]
	// prepare trims the payload and assigns id; id is empty on create.
	prepare func(item *T, id string)
}

func contentHandlers[T any](a *App, k contentKind[T]) ContentHandlers {
	list := func(activeOnly bool) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			params := listParams(r)
			params.ActiveOnly = activeOnly
			items, total, err := k.repo().List(r.Context(), params)
			if err != nil {
				a.fail(w, r, err)
				return
			}
			a.json(w, http.StatusOK, listResponse[T]{Items: items, Total: total})
		}
	}
	decode := func(w http.ResponseWriter, r *http.Request, id string) (*T, bool) {
		item := new(T)
		if !a.decode(w, r, item) {
			return nil, false
		}
		k.prepare(item, id)
		if verr := validation.Struct(item); !verr.Empty() {
			a.validationError(w, verr)
			return nil, false
		}
		return item, true
	}
	return ContentHandlers{
		PublicList: list(true),
		List:       list(false),
		Create: func(w http.ResponseWriter, r *http.Request) {
			item, ok := decode(w, r, "")
			if !ok {
				return
			}
			if err := k.repo().Create(r.Context(), item); err != nil {
				a.fail(w, r, err)
				return
			}
			a.json(w, http.StatusCreated, item)
		},
		Update: func(w http.ResponseWriter, r *http.Request) {
			id, ok := a.pathID(w, r)
			if !ok {
				return
			}
			item, ok := decode(w, r, id)
			if !ok {
				return
			}
			if err := k.repo().Update(r.Context(), item); err != nil {
				a.fail(w, r, err)
				return
			}
			a.json(w, http.StatusOK, item)
		},
		Delete: func(w http.ResponseWriter, r *http.Request) {
			id, ok := a.pathID(w, r)
			if !ok {
				return
			}
			if err := k.repo().Delete(r.Context(), id); err != nil {
				a.fail(w, r, err)
				return
			}
			a.Logger.Info().Str("kind", k.name).Str("id", id).Msg("content deleted")
			w.WriteHeader(http.StatusNoContent)
		},
	}
}

func (a *App) CarouselHandlers() ContentHandlers {
	return contentHandlers(a, contentKind[domain.CarouselImage]{
		name: "carousel",
		repo: func() contentRepo[domain.CarouselImage] { return a.Content.Carousels() },
		prepare: func(c *domain.CarouselImage, id string) {
			c.ID = id
			domain.TrimContent(&c.Title, &c.Subtitle, &c.ImageURL, &c.LinkURL)
		},
	})
}

func (a *App) FlyerHandlers() ContentHandlers {
	return contentHandlers(a, contentKind[domain.Flyer]{
		name: "flyer",
		repo: func() contentRepo[domain.Flyer] { return a.Content.Flyers() },
		prepare: func(f *domain.Flyer, id string) {
			f.ID = id
			domain.TrimContent(&f.Title, &f.Description, &f.ImageURL, &f.LinkURL)
		},
	})
}

func (a *App) VideoHandlers() ContentHandlers {
	return contentHandlers(a, contentKind[domain.Video]{
		name: "video",
		repo: func() contentRepo[domain.Video] { return a.Content.Videos() },
		prepare: func(v *domain.Video, id string) {
			v.ID = id
			domain.TrimContent(&v.Title, &v.Description, &v.VideoURL, &v.ThumbnailURL)
		},
	})
}

func (a *App) TeamTypeHandlers() ContentHandlers {
	return contentHandlers(a, contentKind[domain.TeamType]{
		name: "team_type",
		repo: func() contentRepo[domain.TeamType] { return a.Content.TeamTypes() },
		prepare: func(t *domain.TeamType, id string) {
			t.ID = id
			domain.TrimContent(&t.Name, &t.Description)
		},
	})
}

func (a *App) PopupGet(w http.ResponseWriter, r *http.Request) {
	p, err := a.Content.Popup().Get(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, p)
}

func (a *App) AdminPopupPut(w http.ResponseWriter, r *http.Request) {
	var p domain.PopupSettings
	if !a.decode(w, r, &p) {
		return
	}
	domain.TrimContent(&p.Title, &p.Content, &p.ImageURL, &p.ButtonText, &p.ButtonLink)
	if verr := validation.Struct(&p); !verr.Empty() {
		a.validationError(w, verr)
		return
	}
	if err := a.Content.Popup().Upsert(r.Context(), &p); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, p)
}
