package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usermgmt-go/usermgmt/internal/config"
	"github.com/usermgmt-go/usermgmt/internal/db/controller/group"
	dbuser "github.com/usermgmt-go/usermgmt/internal/db/controller/user"
	"github.com/usermgmt-go/usermgmt/internal/db/dbtest"
	"github.com/usermgmt-go/usermgmt/internal/db/models"
	"github.com/usermgmt-go/usermgmt/internal/dto"
	"github.com/usermgmt-go/usermgmt/internal/service"
	"github.com/usermgmt-go/usermgmt/internal/web/handler"
	"github.com/usermgmt-go/usermgmt/internal/web/handler/api/user"
)

func newApp(t *testing.T, users *service.UserService) *fiber.App {
	t.Helper()

	app := fiber.New()

	h := &user.Service{}
	h.Init(app, &config.Config{}, &handler.Services{Users: users})

	return app
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db := dbtest.New(t)

	return newApp(t, service.NewUserService(dbuser.New(db), group.New(db)))
}

type response struct {
	status   int
	location string
	body     []byte
}

func do(t *testing.T, app *fiber.App, method, target, body string) response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return response{status: resp.StatusCode, location: resp.Header.Get(fiber.HeaderLocation), body: raw}
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))

	return out
}

const johnBody = `{"firstName":"John","lastName":"Doe","email":"john@example.com","phoneNumber":"+1-555-0100","groupIds":[1]}`

func TestCreateAndGet(t *testing.T) {
	app := newTestApp(t)

	created := do(t, app, fiber.MethodPost, "/users", johnBody)
	require.Equal(t, http.StatusCreated, created.status, string(created.body))

	u := decode[dto.UserDto](t, created.body)
	assert.Positive(t, u.ID)
	assert.Equal(t, "/users/1", created.location)
	assert.True(t, u.IsActive)
	require.Len(t, u.Groups, 1)
	assert.Equal(t, "Admin", u.Groups[0].Name)

	got := do(t, app, fiber.MethodGet, created.location, "")
	require.Equal(t, http.StatusOK, got.status)
	assert.Equal(t, "john@example.com", decode[dto.UserDto](t, got.body).Email)

	list := do(t, app, fiber.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, list.status)
	assert.Len(t, decode[[]dto.UserDto](t, list.body), 1)
}

func TestCreateErrors(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, http.StatusCreated, do(t, app, fiber.MethodPost, "/users", johnBody).status)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
		wantFields []string
	}{
		{
			name:       "duplicate email",
			body:       johnBody,
			wantStatus: http.StatusBadRequest,
			wantError:  "User with email john@example.com already exists.",
		},
		{
			name:       "malformed json",
			body:       `{"firstName":`,
			wantStatus: http.StatusBadRequest,
			wantError:  user.ErrInvalidBody,
		},
		{
			name:       "validation",
			body:       `{"firstName":"","lastName":"Doe","email":"nope"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  user.ErrValidationFailed,
			wantFields: []string{"firstName", "email"},
		},
		{
			name:       "unknown group",
			body:       `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","groupIds":[9]}`,
			wantStatus: http.StatusNotFound,
			wantError:  "Group with ID 9 not found.",
		},
		{
			name:       "negative group id",
			body:       `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","groupIds":[-1]}`,
			wantStatus: http.StatusBadRequest,
			wantError:  user.ErrValidationFailed,
			wantFields: []string{"groupIds[0]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, app, fiber.MethodPost, "/users", tt.body)
			assert.Equal(t, tt.wantStatus, resp.status)

			body := decode[struct {
				Error  string `json:"error"`
				Fields []struct {
					Field string `json:"field"`
				} `json:"fields"`
			}](t, resp.body)
			assert.Equal(t, tt.wantError, body.Error)

			fields := make([]string, 0, len(body.Fields))
			for _, f := range body.Fields {
				fields = append(fields, f.Field)
			}

			if tt.wantFields != nil {
				assert.Equal(t, tt.wantFields, fields)
			}
		})
	}
}

func TestGetErrors(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		target     string
		wantStatus int
		wantError  string
	}{
		{"/users/99", http.StatusNotFound, "User with ID 99 not found"},
		{"/users/abc", http.StatusBadRequest, handler.ErrInvalidID},
		{"/users/0", http.StatusBadRequest, handler.ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp := do(t, app, fiber.MethodGet, tt.target, "")
			assert.Equal(t, tt.wantStatus, resp.status)
			assert.JSONEq(t, `{"error":"`+tt.wantError+`"}`, string(resp.body))
		})
	}
}

func TestUpdate(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, http.StatusCreated, do(t, app, fiber.MethodPost, "/users", johnBody).status)
	require.Equal(t, http.StatusCreated, do(t, app, fiber.MethodPost, "/users",
		`{"firstName":"Jane","lastName":"Doe","email":"jane@example.com"}`).status)

	resp := do(t, app, fiber.MethodPut, "/users/1",
		`{"firstName":"Johnny","lastName":"Doe","email":"johnny@example.com","isActive":false,"groupIds":[]}`)
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))

	u := decode[dto.UserDto](t, resp.body)
	assert.Equal(t, "Johnny", u.FirstName)
	assert.False(t, u.IsActive)
	assert.Empty(t, u.Groups)
	assert.NotNil(t, u.ModifiedDate)

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing user",
			target:     "/users/50",
			body:       `{"firstName":"A","lastName":"B","email":"a@example.com"}`,
			wantStatus: http.StatusNotFound,
			wantError:  "User with ID 50 not found.",
		},
		{
			name:       "email taken",
			target:     "/users/1",
			body:       `{"firstName":"A","lastName":"B","email":"jane@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "User with email jane@example.com already exists.",
		},
		{
			name:       "invalid id",
			target:     "/users/x",
			body:       `{"firstName":"A","lastName":"B","email":"a@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  handler.ErrInvalidID,
		},
		{
			name:       "validation",
			target:     "/users/1",
			body:       `{"firstName":"A","lastName":"B","email":"a@example.com","groupIds":[0]}`,
			wantStatus: http.StatusBadRequest,
			wantError:  user.ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, app, fiber.MethodPut, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, resp.status)
			assert.Equal(t, tt.wantError, decode[map[string]any](t, resp.body)["error"])
		})
	}

	got := decode[dto.UserDto](t, do(t, app, fiber.MethodGet, "/users/1", "").body)
	assert.Equal(t, "johnny@example.com", got.Email)
}

func TestDelete(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, http.StatusCreated, do(t, app, fiber.MethodPost, "/users", johnBody).status)

	assert.Equal(t, http.StatusNoContent, do(t, app, fiber.MethodDelete, "/users/1", "").status)

	again := do(t, app, fiber.MethodDelete, "/users/1", "")
	assert.Equal(t, http.StatusNotFound, again.status)
	assert.JSONEq(t, `{"error":"User with ID 1 not found"}`, string(again.body))

	assert.Equal(t, http.StatusBadRequest, do(t, app, fiber.MethodDelete, "/users/-1", "").status)
}

func TestCounts(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, fiber.MethodGet, "/users/count", "")
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "0", string(resp.body))

	require.Equal(t, http.StatusCreated, do(t, app, fiber.MethodPost, "/users", johnBody).status)

	resp = do(t, app, fiber.MethodGet, "/users/count", "")
	assert.Equal(t, "1", string(resp.body))

	resp = do(t, app, fiber.MethodGet, "/users/count-by-group", "")
	require.Equal(t, http.StatusOK, resp.status)

	counts := decode[[]dto.UserCountByGroupDto](t, resp.body)
	require.Len(t, counts, 4)
	assert.Equal(t, dto.UserCountByGroupDto{GroupID: 1, GroupName: "Admin", UserCount: 1}, counts[0])
	assert.Equal(t, int64(0), counts[3].UserCount)
}

type brokenUsers struct{}

var errBroken = errors.New("connection reset by peer")

func (brokenUsers) List(context.Context) ([]models.User, error)               { return nil, errBroken }
func (brokenUsers) GetByID(context.Context, uint) (*models.User, error)       { return nil, errBroken }
func (brokenUsers) GetByEmail(context.Context, string) (*models.User, error)  { return nil, errBroken }
func (brokenUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, errBroken }
func (brokenUsers) Update(context.Context, *models.User) (*models.User, error) { return nil, errBroken }
func (brokenUsers) Delete(context.Context, uint) (bool, error)                { return false, errBroken }
func (brokenUsers) Exists(context.Context, uint) (bool, error)                { return false, errBroken }
func (brokenUsers) Count(context.Context) (int64, error)                      { return 0, errBroken }

func TestUnexpectedErrorsAreHidden(t *testing.T) {
	app := newApp(t, service.NewUserService(brokenUsers{}, group.New(dbtest.New(t))))

	tests := []struct {
		method string
		target string
		body   string
		want   string
	}{
		{fiber.MethodGet, "/users", "", "An error occurred while retrieving users"},
		{fiber.MethodGet, "/users/1", "", "An error occurred while retrieving the user"},
		{fiber.MethodPost, "/users", johnBody, "An error occurred while creating the user"},
		{fiber.MethodPut, "/users/1", johnBody, "An error occurred while updating the user"},
		{fiber.MethodDelete, "/users/1", "", "An error occurred while deleting the user"},
		{fiber.MethodGet, "/users/count", "", "An error occurred while retrieving the user count"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			resp := do(t, app, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusInternalServerError, resp.status)
			assert.JSONEq(t, `{"error":"`+tt.want+`"}`, string(resp.body))
			assert.NotContains(t, string(resp.body), errBroken.Error())
		})
	}
}
