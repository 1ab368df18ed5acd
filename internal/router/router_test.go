package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/FACorreiaa/go-user-admin/config"
	"github.com/FACorreiaa/go-user-admin/internal/container"
	"github.com/FACorreiaa/go-user-admin/internal/router"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Kind    string          `json:"kind"`
	Result  json.RawMessage `json:"result"`
	ID      string          `json:"id"`
}

type userRecord struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	IsDeleted bool    `json:"isDeleted"`
	DeletedBy *string `json:"deletedBy"`
}

type auditRecord struct {
	Model      string          `json:"model"`
	RecordID   string          `json:"recordId"`
	Action     string          `json:"action"`
	ActorEmail *string         `json:"actorEmail"`
	Before     json.RawMessage `json:"before"`
	After      json.RawMessage `json:"after"`
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	var cfg config.Config
	cfg.Repositories.Driver = config.DriverMemory
	cfg.Repositories.QueryTimeout = time.Second
	cfg.JWT = config.JWTConfig{
		SecretKey:      "integration-secret",
		Issuer:         "user-admin",
		Audience:       "user-admin-panel",
		AccessTokenTTL: time.Hour,
	}
	cfg.Audit.LogLimit = 200
	cfg.CORS.AllowedOrigins = []string{"*"}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := container.NewContainer(context.Background(), &cfg, logger)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	srv := httptest.NewServer(router.SetupRouter(c.RouterConfig()))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func login(t *testing.T, srv *httptest.Server) (token, adminID string) {
	t.Helper()
	reg := map[string]string{"name": "Renz", "email": "admin@example.com", "password": "password123"}
	status, _ := do(t, srv, http.MethodPost, "/api/v1/auth/register", "", reg)
	require.Equal(t, http.StatusCreated, status)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/auth/login",
		bytes.NewBufferString(`{"email":"admin@example.com","password":"password123"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.AccessToken)
	require.NotEmpty(t, out.User.ID)
	return out.AccessToken, out.User.ID
}

// RouterSuite drives the full route table against the in-memory driver.
type RouterSuite struct {
	suite.Suite
	srv *httptest.Server
}

func (s *RouterSuite) SetupTest() {
	s.srv = newServer(s.T())
}

func (s *RouterSuite) TestPing() {
	t := s.T()
	resp, err := s.srv.Client().Get(s.srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func (s *RouterSuite) TestProtectedRoutesRequireToken() {
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/records/Users"},
		{http.MethodGet, "/api/v1/syslogs"},
		{http.MethodDelete, "/api/v1/syslogs"},
	} {
		s.Run(tc.method+" "+tc.path, func() {
			status, env := do(s.T(), s.srv, tc.method, tc.path, "", nil)
			s.Equal(http.StatusUnauthorized, status)
			s.False(env.Success)
		})
	}

	status, _ := do(s.T(), s.srv, http.MethodGet, "/api/v1/records/Users", "not-a-token", nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *RouterSuite) TestLoginWrongPassword() {
	_, _ = login(s.T(), s.srv)

	status, env := do(s.T(), s.srv, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"email": "admin@example.com", "password": "nope"})
	s.Equal(http.StatusUnauthorized, status)
	s.Equal("Invalid credentials.", env.Error)
}

func (s *RouterSuite) TestUnknownModel() {
	token, _ := login(s.T(), s.srv)

	status, env := do(s.T(), s.srv, http.MethodGet, "/api/v1/records/Orders", token, nil)
	s.Equal(http.StatusBadRequest, status)
	s.Equal("Model 'Orders' does not exist", env.Error)
}

func (s *RouterSuite) TestUserLifecycleIsAudited() {
	t, srv := s.T(), s.srv
	token, adminID := login(t, srv)

	input := map[string]string{
		"name":          "Jane Doe",
		"email":         "Jane@Example.com",
		"address":       "12 Main St",
		"birthday":      "1990-05-01",
		"contactNumber": "09171234567",
	}

	// create
	status, env := do(t, srv, http.MethodPost, "/api/v1/records/Users", token, input)
	require.Equal(t, http.StatusCreated, status, env.Error)
	var created userRecord
	require.NoError(t, json.Unmarshal(env.Result, &created))
	assert.Equal(t, "jane@example.com", created.Email)

	// duplicate email among active users
	status, env = do(t, srv, http.MethodPost, "/api/v1/records/Users", token, input)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already exists", env.Error)

	// list
	status, env = do(t, srv, http.MethodGet, "/api/v1/records/Users", token, nil)
	require.Equal(t, http.StatusOK, status)
	var listed []userRecord
	require.NoError(t, json.Unmarshal(env.Result, &listed))
	require.Len(t, listed, 1)

	// update
	input["name"] = "Jane Smith"
	status, env = do(t, srv, http.MethodPut, "/api/v1/records/Users/"+created.ID, token, input)
	require.Equal(t, http.StatusOK, status, env.Error)
	var updated userRecord
	require.NoError(t, json.Unmarshal(env.Result, &updated))
	assert.Equal(t, "Jane Smith", updated.Name)

	// delete
	status, env = do(t, srv, http.MethodDelete, "/api/v1/records/Users/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Equal(t, created.ID, env.ID)

	status, _ = do(t, srv, http.MethodGet, "/api/v1/records/Users/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = do(t, srv, http.MethodGet, "/api/v1/records/Users", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Result))

	// the email is free again after soft delete
	status, _ = do(t, srv, http.MethodPost, "/api/v1/records/Users", token, input)
	assert.Equal(t, http.StatusCreated, status)

	// audit trail, newest first
	status, env = do(t, srv, http.MethodGet, "/api/v1/syslogs?model=Users&recordId="+created.ID, token, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	var logs []auditRecord
	require.NoError(t, json.Unmarshal(env.Result, &logs))
	require.Len(t, logs, 3)
	assert.Equal(t, "DELETE", logs[0].Action)
	assert.Equal(t, "UPDATE", logs[1].Action)
	assert.Equal(t, "CREATE", logs[2].Action)
	var deletedState struct {
		IsDeleted bool    `json:"isDeleted"`
		DeletedAt *string `json:"deletedAt"`
		DeletedBy *string `json:"deletedBy"`
	}
	require.NoError(t, json.Unmarshal(logs[0].After, &deletedState))
	assert.True(t, deletedState.IsDeleted)
	assert.NotNil(t, deletedState.DeletedAt)
	require.NotNil(t, deletedState.DeletedBy)
	assert.Equal(t, adminID, *deletedState.DeletedBy)
	assert.JSONEq(t, "null", string(logs[2].Before))
	require.NotNil(t, logs[0].ActorEmail)
	assert.Equal(t, "admin@example.com", *logs[0].ActorEmail)

	// clear
	status, env = do(t, srv, http.MethodDelete, "/api/v1/syslogs", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Logs cleared", env.Message)

	status, env = do(t, srv, http.MethodGet, "/api/v1/syslogs", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Result))
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}
