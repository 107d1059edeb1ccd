package repo

import (
	"context"
	"fmt"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/infra"
	"github.com/ihuusa2/ihu-usa-sub002/internal/sqlinline"
)

// ContentRepositoryPG backs the public site content managed from the back
// office: carousel images, flyers, videos, team types and the popup.
type ContentRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewContentRepository(sql infra.SQLExecutor) *ContentRepositoryPG {
	return &ContentRepositoryPG{sql: sql}
}

// Carousels returns the carousel image view of the repository.
func (r *ContentRepositoryPG) Carousels() domain.CarouselRepository { return carouselRepo{r.sql} }

func (r *ContentRepositoryPG) Flyers() domain.FlyerRepository { return flyerRepo{r.sql} }

func (r *ContentRepositoryPG) Videos() domain.VideoRepository { return videoRepo{r.sql} }

func (r *ContentRepositoryPG) TeamTypes() domain.TeamTypeRepository { return teamTypeRepo{r.sql} }

func (r *ContentRepositoryPG) Popup() domain.PopupRepository { return popupRepo{r.sql} }

// listRows pages through a content table using its count and list queries.
func listRows[T any](ctx context.Context, sql infra.SQLExecutor, countQ, listQ string, params domain.ListParams, scan func(scanner) (T, error)) ([]T, int, error) {
	params = params.Normalize()
	var total int
	if err := sql.QueryRow(ctx, countQ, params.ActiveOnly).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := sql.Query(ctx, listQ, params.ActiveOnly, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func deleteRow(ctx context.Context, sql infra.SQLExecutor, query, id string) error {
	tag, err := sql.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func notFoundOr(err error, what string) error {
	if infra.IsNoRows(err) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w", what, err)
}

type carouselRepo struct{ sql infra.SQLExecutor }

func (r carouselRepo) Create(ctx context.Context, c *domain.CarouselImage) error {
	err := r.sql.QueryRow(ctx, sqlinline.QInsertCarousel,
		c.Title, c.Subtitle, c.ImageURL, c.LinkURL, c.DisplayOrder, c.IsActive).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert carousel image: %w", err)
	}
	return nil
}

func (r carouselRepo) List(ctx context.Context, params domain.ListParams) ([]domain.CarouselImage, int, error) {
	return listRows(ctx, r.sql, sqlinline.QCountCarousels, sqlinline.QListCarousels, params,
		func(row scanner) (domain.CarouselImage, error) {
			var c domain.CarouselImage
			err := row.Scan(&c.ID, &c.Title, &c.Subtitle, &c.ImageURL, &c.LinkURL, &c.DisplayOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
			return c, err
		})
}

func (r carouselRepo) Update(ctx context.Context, c *domain.CarouselImage) error {
	err := r.sql.QueryRow(ctx, sqlinline.QUpdateCarousel,
		c.ID, c.Title, c.Subtitle, c.ImageURL, c.LinkURL, c.DisplayOrder, c.IsActive).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return notFoundOr(err, "update carousel image")
	}
	return nil
}

func (r carouselRepo) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.sql, sqlinline.QDeleteCarousel, id)
}

type flyerRepo struct{ sql infra.SQLExecutor }

func (r flyerRepo) Create(ctx context.Context, f *domain.Flyer) error {
	err := r.sql.QueryRow(ctx, sqlinline.QInsertFlyer,
		f.Title, f.Description, f.ImageURL, f.LinkURL, f.DisplayOrder, f.IsActive).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert flyer: %w", err)
	}
	return nil
}

func (r flyerRepo) List(ctx context.Context, params domain.ListParams) ([]domain.Flyer, int, error) {
	return listRows(ctx, r.sql, sqlinline.QCountFlyers, sqlinline.QListFlyers, params,
		func(row scanner) (domain.Flyer, error) {
			var f domain.Flyer
			err := row.Scan(&f.ID, &f.Title, &f.Description, &f.ImageURL, &f.LinkURL, &f.DisplayOrder, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
			return f, err
		})
}

func (r flyerRepo) Update(ctx context.Context, f *domain.Flyer) error {
	err := r.sql.QueryRow(ctx, sqlinline.QUpdateFlyer,
		f.ID, f.Title, f.Description, f.ImageURL, f.LinkURL, f.DisplayOrder, f.IsActive).
		Scan(&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return notFoundOr(err, "update flyer")
	}
	return nil
}

func (r flyerRepo) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.sql, sqlinline.QDeleteFlyer, id)
}

type videoRepo struct{ sql infra.SQLExecutor }

func (r videoRepo) Create(ctx context.Context, v *domain.Video) error {
	err := r.sql.QueryRow(ctx, sqlinline.QInsertVideo,
		v.Title, v.Description, v.VideoURL, v.ThumbnailURL, v.DisplayOrder, v.IsActive).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

func (r videoRepo) List(ctx context.Context, params domain.ListParams) ([]domain.Video, int, error) {
	return listRows(ctx, r.sql, sqlinline.QCountVideos, sqlinline.QListVideos, params,
		func(row scanner) (domain.Video, error) {
			var v domain.Video
			err := row.Scan(&v.ID, &v.Title, &v.Description, &v.VideoURL, &v.ThumbnailURL, &v.DisplayOrder, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
			return v, err
		})
}

func (r videoRepo) Update(ctx context.Context, v *domain.Video) error {
	err := r.sql.QueryRow(ctx, sqlinline.QUpdateVideo,
		v.ID, v.Title, v.Description, v.VideoURL, v.ThumbnailURL, v.DisplayOrder, v.IsActive).
		Scan(&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return notFoundOr(err, "update video")
	}
	return nil
}

func (r videoRepo) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.sql, sqlinline.QDeleteVideo, id)
}

type teamTypeRepo struct{ sql infra.SQLExecutor }

func (r teamTypeRepo) Create(ctx context.Context, t *domain.TeamType) error {
	err := r.sql.QueryRow(ctx, sqlinline.QInsertTeamType, t.Name, t.Description, t.DisplayOrder, t.IsActive).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return fmt.Errorf("%w: team type %q exists", domain.ErrConflict, t.Name)
		}
		return fmt.Errorf("insert team type: %w", err)
	}
	return nil
}

func (r teamTypeRepo) List(ctx context.Context, params domain.ListParams) ([]domain.TeamType, int, error) {
	return listRows(ctx, r.sql, sqlinline.QCountTeamTypes, sqlinline.QListTeamTypes, params,
		func(row scanner) (domain.TeamType, error) {
			var t domain.TeamType
			err := row.Scan(&t.ID, &t.Name, &t.Description, &t.DisplayOrder, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
			return t, err
		})
}

func (r teamTypeRepo) Update(ctx context.Context, t *domain.TeamType) error {
	err := r.sql.QueryRow(ctx, sqlinline.QUpdateTeamType, t.ID, t.Name, t.Description, t.DisplayOrder, t.IsActive).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return fmt.Errorf("%w: team type %q exists", domain.ErrConflict, t.Name)
		}
		return notFoundOr(err, "update team type")
	}
	return nil
}

func (r teamTypeRepo) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.sql, sqlinline.QDeleteTeamType, id)
}

type popupRepo struct{ sql infra.SQLExecutor }

// Get returns the stored popup, or inactive defaults when none was saved.
func (r popupRepo) Get(ctx context.Context) (*domain.PopupSettings, error) {
	var p domain.PopupSettings
	err := r.sql.QueryRow(ctx, sqlinline.QSelectPopup).Scan(
		&p.Title, &p.Content, &p.ImageURL, &p.ButtonText, &p.ButtonLink, &p.DelaySeconds, &p.IsActive, &p.UpdatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return &domain.PopupSettings{}, nil
		}
		return nil, fmt.Errorf("select popup: %w", err)
	}
	return &p, nil
}

func (r popupRepo) Upsert(ctx context.Context, p *domain.PopupSettings) error {
	err := r.sql.QueryRow(ctx, sqlinline.QUpsertPopup,
		p.Title, p.Content, p.ImageURL, p.ButtonText, p.ButtonLink, p.DelaySeconds, p.IsActive).
		Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert popup: %w", err)
	}
	return nil
}
