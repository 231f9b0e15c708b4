package client

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"hrportal/internal/domain/permissions"
)

const (
	msgPermissionsSaved  = "Permissions saved"
	msgPermissionsFailed = "Failed to save permissions"
)

// Cell is one toggle in the editor grid.
type Cell struct {
	Capability permissions.Capability
	Label      string
	Enabled    bool
	Disabled   bool
}

type Row struct {
	Role  permissions.Role
	Label string
	Cells []Cell
}

// PermissionEditor holds the capability matrix being edited. Toggle and
// Reset stay local; only Load and Save reach the server.
type PermissionEditor struct {
	mu       sync.Mutex
	client   *Client
	notifier Notifier
	draft    *permissions.Draft
}

func NewPermissionEditor(c *Client, notifier Notifier) *PermissionEditor {
	if notifier == nil {
		notifier = LogNotifier{Logger: c.logger}
	}
	return &PermissionEditor{
		client:   c,
		notifier: notifier,
		draft:    permissions.NewDraft(permissions.Defaults()),
	}
}

// Load replaces the defaults with the stored document. A failed read keeps
// the defaults and is only logged at debug level.
func (e *PermissionEditor) Load(ctx context.Context) {
	var doc permissions.Document
	if err := e.client.do(ctx, http.MethodGet, "/api/config/permissions", nil, nil, &doc); err != nil {
		e.client.logger.Debug("load permissions failed, keeping defaults", slog.Any("error", err))
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = permissions.NewDraft(permissions.Defaults().Merge(doc))
}

func (e *PermissionEditor) Toggle(role permissions.Role, capability permissions.Capability) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Toggle(role, capability)
}

// Save sends the whole working document. On failure nothing local changes.
// The editor stays usable while the request is in flight; toggles made
// meanwhile remain pending after the save lands.
func (e *PermissionEditor) Save(ctx context.Context) error {
	e.mu.Lock()
	draft := e.draft
	e.mu.Unlock()

	doc := draft.Document()
	var saved permissions.Document
	err := e.client.do(ctx, http.MethodPut, "/api/config/permissions", nil, map[string]any{"permissions": doc}, &saved)
	if err != nil {
		e.notifier.Error(msgPermissionsFailed)
		return err
	}
	if saved == nil {
		saved = doc
	}
	draft.Commit(doc, saved)
	e.notifier.Success(msgPermissionsSaved)
	return nil
}

// Reset restores the compiled-in defaults without contacting the server.
func (e *PermissionEditor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Reset()
}

func (e *PermissionEditor) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Discard()
}

func (e *PermissionEditor) Document() permissions.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Document()
}

func (e *PermissionEditor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Dirty()
}

func (e *PermissionEditor) Changes() []permissions.Change {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Changes()
}

// Rows lays the working document out for display. Locked admin controls are
// disabled whatever their stored value.
func (e *PermissionEditor) Rows() []Row {
	doc := e.Document()
	rows := make([]Row, 0, len(permissions.Roles))
	for _, role := range permissions.Roles {
		row := Row{Role: role, Label: role.Label(), Cells: make([]Cell, 0, len(permissions.Capabilities))}
		for _, capability := range permissions.Capabilities {
			row.Cells = append(row.Cells, Cell{
				Capability: capability,
				Label:      capability.Label(),
				Enabled:    doc[role][capability],
				Disabled:   permissions.Locked(role, capability),
			})
		}
		rows = append(rows, row)
	}
	return rows
}
