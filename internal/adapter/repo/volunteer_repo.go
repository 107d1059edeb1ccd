package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/infra"
	"github.com/ihuusa2/ihu-usa-sub002/internal/sqlinline"
)

// VolunteerRepositoryPG stores volunteer applications. Contact fields get
// their own columns; the selections and free-text answers live in the
// answers jsonb column.
type VolunteerRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewVolunteerRepository(sql infra.SQLExecutor) *VolunteerRepositoryPG {
	return &VolunteerRepositoryPG{sql: sql}
}

type volunteerAnswers struct {
	domain.VolunteerPreferences
	domain.VolunteerStatement
}

func (r *VolunteerRepositoryPG) Create(ctx context.Context, app *domain.VolunteerApplication) error {
	answers, err := json.Marshal(volunteerAnswers{
		VolunteerPreferences: app.Form.VolunteerPreferences,
		VolunteerStatement:   app.Form.VolunteerStatement,
	})
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	p := app.Form.VolunteerPersonal
	row := r.sql.QueryRow(ctx, sqlinline.QInsertVolunteer,
		p.FirstName, p.LastName, p.Email, p.Phone, p.Address, p.City, p.State, p.Zip, p.Country, answers)
	if err := row.Scan(&app.ID, &app.CreatedAt); err != nil {
		return fmt.Errorf("insert volunteer: %w", err)
	}
	return nil
}

func (r *VolunteerRepositoryPG) GetByID(ctx context.Context, id string) (*domain.VolunteerApplication, error) {
	app, err := scanVolunteer(r.sql.QueryRow(ctx, sqlinline.QSelectVolunteerByID, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *VolunteerRepositoryPG) List(ctx context.Context, params domain.ListParams) ([]domain.VolunteerApplication, int, error) {
	params = params.Normalize()
	var total int
	if err := r.sql.QueryRow(ctx, sqlinline.QCountVolunteers).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count volunteers: %w", err)
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListVolunteers, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list volunteers: %w", err)
	}
	defer rows.Close()

	items := make([]domain.VolunteerApplication, 0)
	for rows.Next() {
		app, err := scanVolunteer(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *app)
	}
	return items, total, rows.Err()
}

func scanVolunteer(row scanner) (*domain.VolunteerApplication, error) {
	var app domain.VolunteerApplication
	p := &app.Form.VolunteerPersonal
	var answers []byte
	if err := row.Scan(&app.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Address,
		&p.City, &p.State, &p.Zip, &p.Country, &answers, &app.CreatedAt); err != nil {
		return nil, err
	}
	if len(answers) > 0 {
		var decoded volunteerAnswers
		if err := json.Unmarshal(answers, &decoded); err != nil {
			return nil, fmt.Errorf("decode answers for %s: %w", app.ID, err)
		}
		app.Form.VolunteerPreferences = decoded.VolunteerPreferences
		app.Form.VolunteerStatement = decoded.VolunteerStatement
	}
	return &app, nil
}

var _ domain.VolunteerRepository = (*VolunteerRepositoryPG)(nil)
