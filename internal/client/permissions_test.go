package client

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hrportal/internal/domain/permissions"
)

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func TestToggleFlipsExactlyOnePair(t *testing.T) {
	api, c := newFakeAPI(t)
	editor := NewPermissionEditor(c, &recordingNotifier{})

	for _, role := range permissions.Roles {
		for _, capability := range permissions.Capabilities {
			before := editor.Document()
			require.NoError(t, editor.Toggle(role, capability))
			after := editor.Document()

			for _, r := range permissions.Roles {
				for _, cp := range permissions.Capabilities {
					if r == role && cp == capability {
						require.Equal(t, !before[r][cp], after[r][cp])
						continue
					}
					require.Equal(t, before[r][cp], after[r][cp], "%s.%s changed", r, cp)
				}
			}
		}
	}
	require.Zero(t, api.count())
}

func TestToggleTwiceRestores(t *testing.T) {
	_, c := newFakeAPI(t)
	editor := NewPermissionEditor(c, &recordingNotifier{})

	require.False(t, editor.Document()[permissions.RoleSecretary][permissions.CanPostBehavior])
	require.NoError(t, editor.Toggle(permissions.RoleSecretary, permissions.CanPostBehavior))
	require.True(t, editor.Document()[permissions.RoleSecretary][permissions.CanPostBehavior])
	require.NoError(t, editor.Toggle(permissions.RoleSecretary, permissions.CanPostBehavior))
	require.False(t, editor.Document()[permissions.RoleSecretary][permissions.CanPostBehavior])
}

func TestToggleRejectsUnknownPair(t *testing.T) {
	_, c := newFakeAPI(t)
	editor := NewPermissionEditor(c, &recordingNotifier{})
	require.Error(t, editor.Toggle("manager", permissions.CanApproveLeaves))
	require.Error(t, editor.Toggle(permissions.RoleAdmin, "can_fly"))
}

func TestResetRestoresDefaultsWithoutNetwork(t *testing.T) {
	api, c := newFakeAPI(t)
	stored := permissions.Defaults()
	stored[permissions.RoleEmployee][permissions.CanViewSalaries] = true
	api.handle(http.MethodGet, "/api/config/permissions", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, stored)
	})

	editor := NewPermissionEditor(c, &recordingNotifier{})
	editor.Load(t.Context())
	require.NoError(t, editor.Toggle(permissions.RoleSecretary, permissions.CanEditSalaries))
	calls := api.count()

	editor.Reset()
	require.Equal(t, permissions.Defaults(), editor.Document())
	require.Equal(t, calls, api.count())
	require.True(t, editor.Dirty())
}

func TestLoadFailureKeepsDefaults(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle(http.MethodGet, "/api/config/permissions", func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, http.StatusInternalServerError, "boom", "db down")
	})
	notifier := &recordingNotifier{}
	editor := NewPermissionEditor(c, notifier)

	editor.Load(t.Context())
	require.Equal(t, permissions.Defaults(), editor.Document())
	require.Empty(t, notifier.errors)
	require.Empty(t, notifier.successes)
}

func TestLoadOverridesDefaults(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle(http.MethodGet, "/api/config/permissions", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, map[string]map[string]bool{"employee": {"can_post_behavior": true}})
	})
	editor := NewPermissionEditor(c, &recordingNotifier{})

	editor.Load(t.Context())
	doc := editor.Document()
	require.True(t, doc[permissions.RoleEmployee][permissions.CanPostBehavior])
	require.True(t, doc[permissions.RoleAdmin][permissions.CanManagePermissions])
	require.False(t, editor.Dirty())
}

func TestSaveSendsWholeDocument(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle(http.MethodPut, "/api/config/permissions", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Permissions permissions.Document `json:"permissions"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeOK(w, body.Permissions)
	})
	notifier := &recordingNotifier{}
	editor := NewPermissionEditor(c, notifier)
	require.NoError(t, editor.Toggle(permissions.RoleSecretary, permissions.CanPostBehavior))
	want := editor.Document()

	require.NoError(t, editor.Save(t.Context()))

	var sent struct {
		Permissions permissions.Document `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(api.last().Body, &sent))
	require.Equal(t, want, sent.Permissions)
	require.Equal(t, []string{msgPermissionsSaved}, notifier.successes)
	require.False(t, editor.Dirty())
}

func TestEditorUsableWhileSaveInFlight(t *testing.T) {
	api, c := newFakeAPI(t)
	started := make(chan struct{})
	release := make(chan struct{})
	api.handle(http.MethodPut, "/api/config/permissions", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Permissions permissions.Document `json:"permissions"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		close(started)
		<-release
		writeOK(w, body.Permissions)
	})
	notifier := &recordingNotifier{}
	editor := NewPermissionEditor(c, notifier)
	require.NoError(t, editor.Toggle(permissions.RoleSecretary, permissions.CanPostBehavior))

	saveErr := make(chan error, 1)
	go func() { saveErr <- editor.Save(t.Context()) }()
	<-started

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = editor.Rows()
		_ = editor.Toggle(permissions.RoleEmployee, permissions.CanPostAnnouncements)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		close(release)
		t.Fatal("editor blocked while save was in flight")
	}

	close(release)
	require.NoError(t, <-saveErr)

	require.True(t, editor.Dirty())
	require.Equal(t, []permissions.Change{{
		Role:       permissions.RoleEmployee,
		Capability: permissions.CanPostAnnouncements,
		From:       false,
		To:         true,
	}}, editor.Changes())
	require.True(t, editor.Document()[permissions.RoleSecretary][permissions.CanPostBehavior])
	require.Equal(t, []string{msgPermissionsSaved}, notifier.successes)
}

func TestSaveFailureLeavesStateUnchanged(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle(http.MethodPut, "/api/config/permissions", func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, http.StatusBadRequest, "validation_error", "locked capability cannot be revoked")
	})
	notifier := &recordingNotifier{}
	editor := NewPermissionEditor(c, notifier)
	require.NoError(t, editor.Toggle(permissions.RoleAdmin, permissions.CanDeleteEmployees))
	before := editor.Document()

	err := editor.Save(t.Context())
	require.True(t, IsStatus(err, http.StatusBadRequest))
	require.Equal(t, before, editor.Document())
	require.True(t, editor.Dirty())
	require.Equal(t, []string{msgPermissionsFailed}, notifier.errors)
	require.Empty(t, notifier.successes)
}

func TestRowsDisableLockedAdminControls(t *testing.T) {
	api, c := newFakeAPI(t)
	stored := permissions.Defaults()
	stored[permissions.RoleAdmin][permissions.CanDeleteEmployees] = false
	api.handle(http.MethodGet, "/api/config/permissions", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, stored)
	})
	editor := NewPermissionEditor(c, &recordingNotifier{})
	editor.Load(t.Context())

	rows := editor.Rows()
	require.Len(t, rows, len(permissions.Roles))
	for _, row := range rows {
		require.Len(t, row.Cells, len(permissions.Capabilities))
		for _, cell := range row.Cells {
			locked := row.Role == permissions.RoleAdmin &&
				(cell.Capability == permissions.CanManagePermissions || cell.Capability == permissions.CanDeleteEmployees)
			require.Equal(t, locked, cell.Disabled, "%s.%s", row.Role, cell.Capability)
		}
	}
	require.False(t, rows[0].Cells[6].Enabled)
	require.True(t, rows[0].Cells[6].Disabled)
}
