package sites

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("sites: not found")
	ErrConflict  = errors.New("sites: name already in use")
	ErrHasGroups = errors.New("sites: site still has groups")
)

type Site struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,max=120"`
	Address   string    `json:"address" validate:"max=255"`
	City      string    `json:"city" validate:"max=120"`
	Phone     string    `json:"phone" validate:"max=40"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Group struct {
	ID          string    `json:"id"`
	SiteID      string    `json:"site_id" validate:"required,uuid"`
	Name        string    `json:"name" validate:"required,max=120"`
	Description string    `json:"description" validate:"max=500"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
