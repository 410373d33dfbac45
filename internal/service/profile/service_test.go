package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftclock/shiftclock-backend-go/internal/domain/user"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/localstore"
	"github.com/shiftclock/shiftclock-backend-go/internal/pkg/webhook"
)

func ptr(s string) *string { return &s }

type memUserRepo struct {
	users   map[string]user.User
	updated []user.UpdateProfileRequest
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (m *memUserRepo) GetByUserName(_ context.Context, userName string) (user.User, error) {
	for _, u := range m.users {
		if u.UserName == userName {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *memUserRepo) List(_ context.Context) ([]user.User, error) { return nil, nil }

func (m *memUserRepo) ListByRole(_ context.Context, _ user.Role) ([]user.User, error) {
	return nil, nil
}

func (m *memUserRepo) Create(_ context.Context, u user.User) (user.User, error) { return u, nil }

func (m *memUserRepo) Update(_ context.Context, req user.UpdateProfileRequest) error {
	u, ok := m.users[req.ID]
	if !ok {
		return user.ErrUserNotFound
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Phone != nil {
		u.Phone = req.Phone
	}
	if req.Avatar != nil {
		u.Avatar = req.Avatar
	}
	m.users[req.ID] = u
	m.updated = append(m.updated, req)
	return nil
}

func (m *memUserRepo) ExistsByUserNameOrEmail(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func newFixture(t *testing.T, webhookBody string, status int) (user.ProfileService, *memUserRepo, *localstore.Manager, *[]map[string]interface{}) {
	t.Helper()

	var calls []map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		calls = append(calls, payload)
		w.WriteHeader(status)
		w.Write([]byte(webhookBody))
	}))
	t.Cleanup(server.Close)

	repo := &memUserRepo{users: map[string]user.User{
		"u1": {
			ID:        "u1",
			Name:      "Alice Smith",
			UserName:  "alice",
			Email:     "alice@example.com",
			Role:      user.RoleEmployee,
			CreatedAt: time.Now(),
		},
	}}

	stores, err := localstore.NewManager(t.TempDir())
	require.NoError(t, err)

	client := webhook.NewClient(server.URL, 5*time.Second)
	return NewProfileService(repo, client, stores), repo, stores, &calls
}

func TestGetReturnsProfile(t *testing.T) {
	svc, _, _, _ := newFixture(t, "done", http.StatusOK)

	resp, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.UserName)
	assert.Equal(t, "Alice Smith", resp.Name)
}

func TestGetUnknownUser(t *testing.T) {
	svc, _, _, _ := newFixture(t, "done", http.StatusOK)

	_, err := svc.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestSaveConfirmedUpdatesAndMirrors(t *testing.T) {
	svc, repo, stores, calls := newFixture(t, "done", http.StatusOK)

	resp, err := svc.Save(context.Background(), user.UpdateProfileRequest{
		ID:    "u1",
		Name:  ptr("Alice Jones"),
		Phone: ptr("555-0101"),
	}, "device-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice Jones", resp.Name)

	require.Len(t, *calls, 1)
	payload := (*calls)[0]
	assert.Equal(t, "alice", payload["user_name"])
	assert.Equal(t, "Alice Jones", payload["name"])
	assert.Equal(t, "555-0101", payload["phone"])
	assert.Equal(t, "alice@example.com", payload["email"])

	assert.Equal(t, "Alice Jones", repo.users["u1"].Name)

	// the device's cached identity follows the confirmed save
	store, err := stores.Device("device-1")
	require.NoError(t, err)
	var cached user.UserResponse
	found, err := store.GetJSON(localstore.KeyAuthUser, &cached)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Alice Jones", cached.Name)
}

func TestSaveRelaysRequestedEmail(t *testing.T) {
	svc, _, _, calls := newFixture(t, "done", http.StatusOK)

	_, err := svc.Save(context.Background(), user.UpdateProfileRequest{
		ID:    "u1",
		Email: ptr("alice.new@example.com"),
	}, "")
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	assert.Equal(t, "alice.new@example.com", (*calls)[0]["email"])
}

func TestSaveUnconfirmedLeavesRowUntouched(t *testing.T) {
	svc, repo, _, _ := newFixture(t, "processing", http.StatusOK)

	_, err := svc.Save(context.Background(), user.UpdateProfileRequest{
		ID:   "u1",
		Name: ptr("Alice Jones"),
	}, "device-1")
	assert.ErrorIs(t, err, user.ErrProfileSaveUnconfirmed)
	assert.Equal(t, "Alice Smith", repo.users["u1"].Name)
	assert.Empty(t, repo.updated)
}

func TestSaveValidatesRequest(t *testing.T) {
	svc, _, _, calls := newFixture(t, "done", http.StatusOK)

	_, err := svc.Save(context.Background(), user.UpdateProfileRequest{
		ID:    "u1",
		Email: ptr("not-an-email"),
	}, "")
	require.Error(t, err)
	assert.Empty(t, *calls)
}
