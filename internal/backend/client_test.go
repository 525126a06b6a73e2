package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/mugiwarahub/mugiwara/internal/config"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

func newTestClient(t *testing.T, tokens oauth2.TokenSource, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.API.BackendURL = server.URL
	cfg.API.MaxRetries = 1
	return NewClient(cfg, tokens, nil)
}

func staticTokens(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, Expiry: time.Now().Add(time.Hour)})
}

func decodeBody(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestClient_Login(t *testing.T) {
	client := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		body := decodeBody(t, r)
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"user":{"token":"tok-1","name":"Luffy"}}`))
	})

	token, err := client.Login(context.Background(), "luffy@sea.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	_, err = client.Login(context.Background(), "luffy@sea.com", "wrong")
	require.Error(t, err)
	var apiErr *types.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials", apiErr.Message)

	_, err = client.Login(context.Background(), "", "secret")
	assert.ErrorIs(t, err, ErrEmailRequired)
}

func TestSignupRequest_Validate(t *testing.T) {
	valid := SignupRequest{Name: "Nami", Email: "nami@sea.com", Password: "tangerine", ConfirmPassword: "tangerine"}

	tests := []struct {
		name   string
		mutate func(r *SignupRequest)
		want   error
	}{
		{name: "valid", mutate: func(r *SignupRequest) {}},
		{name: "blank name", mutate: func(r *SignupRequest) { r.Name = "  " }, want: ErrNameRequired},
		{name: "blank email", mutate: func(r *SignupRequest) { r.Email = "" }, want: ErrEmailRequired},
		{name: "bad email", mutate: func(r *SignupRequest) { r.Email = "nami@sea" }, want: ErrEmailInvalid},
		{name: "email with space", mutate: func(r *SignupRequest) { r.Email = "na mi@sea.com" }, want: ErrEmailInvalid},
		{name: "short password", mutate: func(r *SignupRequest) { r.Password, r.ConfirmPassword = "12345", "12345" }, want: ErrPasswordTooShort},
		{name: "mismatch", mutate: func(r *SignupRequest) { r.ConfirmPassword = "orange" }, want: ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_Signup(t *testing.T) {
	calls := 0
	client := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/users/auth/signup", r.URL.Path)
		body := decodeBody(t, r)
		assert.Equal(t, "Nami", body["name"])
		assert.NotContains(t, body, "ConfirmPassword")
		_, _ = w.Write([]byte(`{"user":{"token":"tok-2"}}`))
	})

	_, err := client.Signup(context.Background(), SignupRequest{Name: "Nami", Email: "bad", Password: "tangerine", ConfirmPassword: "tangerine"})
	assert.ErrorIs(t, err, ErrEmailInvalid)
	assert.Equal(t, 0, calls, "invalid forms never reach the backend")

	token, err := client.Signup(context.Background(), SignupRequest{Name: "Nami", Email: "nami@sea.com", Password: "tangerine", ConfirmPassword: "tangerine"})
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)
}

func TestClient_Me(t *testing.T) {
	client := newTestClient(t, staticTokens("tok-1"), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"name":"","email":"zoro@sea.com","profile":"p.png"}`))
	})

	profile, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "zoro@sea.com", profile.Email)
	assert.Equal(t, "Anime Fan", profile.DisplayName())
}

func TestClient_RequiresSession(t *testing.T) {
	client := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})

	_, err := client.Me(context.Background())
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)

	_, err = client.ToggleWatchlist(context.Background(), WatchlistItem{AnimeID: 1})
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)

	_, err = client.AddComment(context.Background(), 1, "hello")
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)

	assert.Empty(t, client.HomeWatchlist(context.Background()))
}

func TestClient_Unauthorized(t *testing.T) {
	client := newTestClient(t, staticTokens("stale"), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"jwt expired"}`))
	})

	_, err := client.ContinueWatching(context.Background())
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)
	assert.Equal(t, http.StatusUnauthorized, types.StatusCode(err))
}

func TestClient_Comments(t *testing.T) {
	var posted map[string]interface{}
	client := newTestClient(t, staticTokens("tok-1"), func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/anime/comment":
			posted = decodeBody(t, r)
			_, _ = w.Write([]byte(`{"message":"ok"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/anime/comment/21":
			assert.Empty(t, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"comments":[
				{"id":1,"userId":"u1","content":"peak","user":{"name":"Usopp","profile":"u.png"},"createdAt":"2026-01-02T03:04:05Z"},
				{"id":"c2","userId":7,"content":"mid","user":null,"createdAt":"2026-01-03T03:04:05Z"}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	_, err := client.AddComment(context.Background(), 21, "   ")
	assert.ErrorIs(t, err, ErrEmptyComment)

	comments, err := client.AddComment(context.Background(), 21, "peak")
	require.NoError(t, err)
	assert.Equal(t, "peak", posted["comment"])
	assert.EqualValues(t, 21, posted["AnimeId"])

	require.Len(t, comments, 2)
	assert.Equal(t, FlexString("1"), comments[0].ID)
	assert.Equal(t, "Usopp", comments[0].User.Name)
	assert.Equal(t, "Anonymous", comments[1].User.Name)
	assert.Equal(t, FlexString("7"), comments[1].UserID)
	assert.True(t, strings.HasSuffix(comments[0].Age(), "ago"))
}
