package group_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usermgmt-go/usermgmt/internal/config"
	dbgroup "github.com/usermgmt-go/usermgmt/internal/db/controller/group"
	"github.com/usermgmt-go/usermgmt/internal/db/dbtest"
	"github.com/usermgmt-go/usermgmt/internal/dto"
	"github.com/usermgmt-go/usermgmt/internal/service"
	"github.com/usermgmt-go/usermgmt/internal/web/handler"
	"github.com/usermgmt-go/usermgmt/internal/web/handler/api/group"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	app := fiber.New()

	h := &group.Service{}
	h.Init(app, &config.Config{}, &handler.Services{
		Groups: service.NewGroupService(dbgroup.New(dbtest.New(t))),
	})

	return app
}

func get(t *testing.T, app *fiber.App, target string) (int, []byte) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil), -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

func TestList(t *testing.T) {
	status, body := get(t, newTestApp(t), "/groups")
	require.Equal(t, http.StatusOK, status)

	var groups []dto.GroupDto
	require.NoError(t, json.Unmarshal(body, &groups))
	require.Len(t, groups, 4)
	assert.Equal(t, "Level 1", groups[1].Name)
	require.Len(t, groups[1].Permissions, 1)
	assert.Equal(t, "Read", groups[1].Permissions[0].Name)
}

func TestGet(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		target     string
		wantStatus int
		wantName   string
		wantError  string
	}{
		{target: "/groups/4", wantStatus: http.StatusOK, wantName: "Manager"},
		{target: "/groups/40", wantStatus: http.StatusNotFound, wantError: "Group with ID 40 not found"},
		{target: "/groups/zero", wantStatus: http.StatusBadRequest, wantError: handler.ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			status, body := get(t, app, tt.target)
			assert.Equal(t, tt.wantStatus, status)

			if tt.wantError != "" {
				assert.JSONEq(t, `{"error":"`+tt.wantError+`"}`, string(body))
				return
			}

			var g dto.GroupDto
			require.NoError(t, json.Unmarshal(body, &g))
			assert.Equal(t, tt.wantName, g.Name)
			assert.Len(t, g.Permissions, 5)
		})
	}
}
