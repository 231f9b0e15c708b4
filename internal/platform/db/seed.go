package db

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/permissions"
)

// Seed makes a fresh database usable: one active super admin and the
// default permissions document. Existing rows are left alone.
func Seed(ctx context.Context, pool *pgxpool.Pool, adminEmail, adminPassword string) error {
	if err := ensurePermissions(ctx, permissions.NewStore(pool)); err != nil {
		return err
	}
	if strings.TrimSpace(adminEmail) == "" || adminPassword == "" {
		slog.Info("seed admin skipped", "reason", "SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set")
		return nil
	}
	return ensureAdminUser(ctx, auth.NewStore(pool), adminEmail, adminPassword)
}

func ensurePermissions(ctx context.Context, store permissions.StoreAPI) error {
	_, err := store.LoadDocument(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, permissions.ErrNotStored) {
		return err
	}
	return store.SaveDocument(ctx, permissions.Defaults(), "")
}

func ensureAdminUser(ctx context.Context, store auth.StoreAPI, email, password string) error {
	if _, _, err := store.UserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, auth.ErrNotFound) {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = store.CreateUser(ctx, auth.User{
		Email:     email,
		FirstName: "System",
		LastName:  "Administrator",
		Role:      auth.RoleSuperAdmin,
		Status:    auth.UserStatusActive,
	}, hash)
	if errors.Is(err, auth.ErrEmailTaken) {
		return nil
	}
	return err
}
