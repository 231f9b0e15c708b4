package sites

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrportal/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const siteColumns = `id::text, name, COALESCE(address, ''), COALESCE(city, ''), COALESCE(phone, ''), is_active, created_at, updated_at`

const groupColumns = `id::text, site_id::text, name, COALESCE(description, ''), created_at, updated_at`

func scanSite(row pgx.Row) (Site, error) {
	var s Site
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, mapErr(err)
}

func scanGroup(row pgx.Row) (Group, error) {
	var g Group
	err := row.Scan(&g.ID, &g.SiteID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	return g, mapErr(err)
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrConflict
		case "23503":
			// a group pointing at a site that does not exist
			return ErrNotFound
		case "22P02":
			// an id that is not a uuid cannot name a row
			return ErrNotFound
		}
	}
	return err
}

func (s *Store) ListSites(ctx context.Context) ([]Site, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+siteColumns+` FROM sites ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Site{}
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, site)
	}
	return out, rows.Err()
}

func (s *Store) GetSite(ctx context.Context, id string) (Site, error) {
	return scanSite(s.DB.QueryRow(ctx, `SELECT `+siteColumns+` FROM sites WHERE id = $1`, id))
}

func (s *Store) CreateSite(ctx context.Context, site Site) (Site, error) {
	return scanSite(s.DB.QueryRow(ctx, `
    INSERT INTO sites (name, address, city, phone, is_active)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING `+siteColumns, site.Name, site.Address, site.City, site.Phone, site.IsActive))
}

func (s *Store) UpdateSite(ctx context.Context, id string, site Site) (Site, error) {
	return scanSite(s.DB.QueryRow(ctx, `
    UPDATE sites
    SET name = $1, address = $2, city = $3, phone = $4, is_active = $5, updated_at = now()
    WHERE id = $6
    RETURNING `+siteColumns, site.Name, site.Address, site.City, site.Phone, site.IsActive, id))
}

func (s *Store) DeleteSite(ctx context.Context, id string) error {
	var groups int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM site_groups WHERE site_id = $1", id).Scan(&groups); err != nil {
		return mapErr(err)
	}
	if groups > 0 {
		return ErrHasGroups
	}
	tag, err := s.DB.Exec(ctx, "DELETE FROM sites WHERE id = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrHasGroups
		}
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListGroups(ctx context.Context, siteID string) ([]Group, error) {
	query := `SELECT ` + groupColumns + ` FROM site_groups`
	var args []any
	if siteID != "" {
		query += " WHERE site_id = $1"
		args = append(args, siteID)
	}
	query += " ORDER BY name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	out := []Group{}
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, group)
	}
	return out, rows.Err()
}

func (s *Store) GetGroup(ctx context.Context, id string) (Group, error) {
	return scanGroup(s.DB.QueryRow(ctx, `SELECT `+groupColumns+` FROM site_groups WHERE id = $1`, id))
}

func (s *Store) CreateGroup(ctx context.Context, group Group) (Group, error) {
	return scanGroup(s.DB.QueryRow(ctx, `
    INSERT INTO site_groups (site_id, name, description)
    VALUES ($1, $2, $3)
    RETURNING `+groupColumns, group.SiteID, group.Name, group.Description))
}

func (s *Store) UpdateGroup(ctx context.Context, id string, group Group) (Group, error) {
	return scanGroup(s.DB.QueryRow(ctx, `
    UPDATE site_groups
    SET site_id = $1, name = $2, description = $3, updated_at = now()
    WHERE id = $4
    RETURNING `+groupColumns, group.SiteID, group.Name, group.Description, id))
}

func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM site_groups WHERE id = $1", id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
