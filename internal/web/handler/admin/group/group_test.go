package group

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usermgmt-go/usermgmt/internal/config"
	dbgroup "github.com/usermgmt-go/usermgmt/internal/db/controller/group"
	dbuser "github.com/usermgmt-go/usermgmt/internal/db/controller/user"
	"github.com/usermgmt-go/usermgmt/internal/db/dbtest"
	"github.com/usermgmt-go/usermgmt/internal/dto"
	"github.com/usermgmt-go/usermgmt/internal/service"
	"github.com/usermgmt-go/usermgmt/internal/web/handler"
	"github.com/usermgmt-go/usermgmt/internal/web/handler/viewtest"
)

func newTestApp(t *testing.T) (*fiber.App, *viewtest.Views, *service.UserService) {
	t.Helper()

	db := dbtest.New(t)
	groups := dbgroup.New(db)
	svc := &handler.Services{
		Users:  service.NewUserService(dbuser.New(db), groups),
		Groups: service.NewGroupService(groups),
	}

	views := viewtest.New()
	app := fiber.New(fiber.Config{Views: views})

	h := &Service{}
	h.Init(app, &config.Config{}, svc)

	return app, views, svc.Users
}

func get(t *testing.T, app *fiber.App, target string) int {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil))
	require.NoError(t, err)
	_ = resp.Body.Close()

	return resp.StatusCode
}

func TestList(t *testing.T) {
	app, views, users := newTestApp(t)

	_, err := users.CreateUser(context.Background(), &dto.CreateUserInput{
		FirstName: "John", LastName: "Doe", Email: "john@example.com", GroupIDs: []int{2},
	})
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, get(t, app, Path))

	r, ok := views.Last()
	require.True(t, ok)
	assert.Equal(t, TemplateList, r.Name)

	list, ok := r.Binding["Rows"].([]Row)
	require.True(t, ok)
	require.Len(t, list, 4)
	assert.Equal(t, "Level 1", list[1].Group.Name)
	assert.Equal(t, int64(1), list[1].MemberCount)
	assert.Zero(t, list[0].MemberCount)
}

func TestDetail(t *testing.T) {
	app, views, _ := newTestApp(t)

	tests := []struct {
		target       string
		wantStatus   int
		wantTemplate string
	}{
		{Path + "/1", fiber.StatusOK, TemplateDetail},
		{Path + "/77", fiber.StatusNotFound, TemplateNotFound},
		{Path + "/abc", fiber.StatusNotFound, TemplateNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, get(t, app, tt.target))

			r, ok := views.Last()
			require.True(t, ok)
			assert.Equal(t, tt.wantTemplate, r.Name)
		})
	}

	get(t, app, Path+"/1")
	r, _ := views.Last()
	g, ok := r.Binding["Group"].(*dto.GroupDto)
	require.True(t, ok)
	assert.Equal(t, "Admin", g.Name)
	assert.Len(t, g.Permissions, 8)
}

func TestRows(t *testing.T) {
	got := rows(
		[]dto.GroupDto{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}},
		[]dto.UserCountByGroupDto{{GroupID: 2, UserCount: 5}},
	)

	require.Len(t, got, 2)
	assert.Zero(t, got[0].MemberCount)
	assert.Equal(t, int64(5), got[1].MemberCount)
}
