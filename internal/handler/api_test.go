package handler_test

// End-to-end handler tests: real router, real services, real SQLite in
// memory. Only bcrypt cost is dialed down — everything else is the
// production wiring, so these tests exercise the actual wire contract the
// mobile client depends on (field names, status codes, error shapes).

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/card-trader/internal/auth"
	"github.com/sakif/card-trader/internal/handler"
	"github.com/sakif/card-trader/internal/model"
	"github.com/sakif/card-trader/internal/repository/sqlite"
	"github.com/sakif/card-trader/internal/service"
)

const testSecret = "test-secret-at-least-16-chars"

// newTestRouter wires the API exactly like the server does, against an
// in-memory database that disappears when the test ends.
func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)

	authService := service.NewAuthService(db, tokens, passwords, logger)
	listService := service.NewListService(db, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	profileHandler := handler.NewProfileHandler(authService, logger)
	listHandler := handler.NewListHandler(listService, logger)
	statusHandler := handler.NewStatusHandler(db, "test")

	requireAuth := auth.RequireAuth(tokens, handler.ErrorWriter{})

	r := chi.NewRouter()
	r.Get("/", statusHandler.HandleRoot)
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", statusHandler.HandleStatus)
		r.Get("/basic-status", statusHandler.HandleBasicStatus)
		r.Post("/registro", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Get("/user/{username}", profileHandler.HandleGetByUsername)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/user/profile/me", profileHandler.HandleMe)
			r.Post("/user/wants", listHandler.HandleAdd(model.ListWants))
			r.Put("/user/wants/{cardId}", listHandler.HandleUpdate(model.ListWants))
			r.Delete("/user/wants/{cardId}", listHandler.HandleRemove(model.ListWants))
			r.Post("/user/sells", listHandler.HandleAdd(model.ListSells))
			r.Put("/user/sells/{cardId}", listHandler.HandleUpdate(model.ListSells))
			r.Delete("/user/sells/{cardId}", listHandler.HandleRemove(model.ListSells))
		})
	})
	return r
}

// doJSON performs one request against the router and decodes the JSON body
// into a generic map.
func doJSON(t *testing.T, router http.Handler, method, path, token, body string) (int, map[string]any) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var decoded map[string]any
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &decoded),
			"response body was not JSON: %s", rr.Body.String())
	}
	return rr.Code, decoded
}

// registerAndLogin creates an account and returns its bearer token.
func registerAndLogin(t *testing.T, router http.Handler, username string) string {
	t.Helper()

	body := fmt.Sprintf(`{"usuario":%q,"email":"%s@example.com","password":"hunter22"}`, username, username)
	code, _ := doJSON(t, router, http.MethodPost, "/api/registro", "", body)
	require.Equal(t, http.StatusCreated, code)

	loginBody := fmt.Sprintf(`{"usuario":%q,"password":"hunter22"}`, username)
	code, res := doJSON(t, router, http.MethodPost, "/api/login", "", loginBody)
	require.Equal(t, http.StatusOK, code)

	token, ok := res["token"].(string)
	require.True(t, ok, "login response missing token: %v", res)
	return token
}

func TestRegister(t *testing.T) {
	router := newTestRouter(t)

	t.Run("success returns 201 with id", func(t *testing.T) {
		code, res := doJSON(t, router, http.MethodPost, "/api/registro", "",
			`{"usuario":"alice","email":"alice@example.com","password":"hunter22"}`)

		assert.Equal(t, http.StatusCreated, code)
		assert.NotEmpty(t, res["id"])
		assert.Equal(t, "user registered successfully", res["message"])
	})

	t.Run("missing field is 400", func(t *testing.T) {
		code, res := doJSON(t, router, http.MethodPost, "/api/registro", "",
			`{"usuario":"bob","email":"bob@example.com"}`)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "validation_error", res["error"])
	})

	t.Run("malformed JSON is 400", func(t *testing.T) {
		code, res := doJSON(t, router, http.MethodPost, "/api/registro", "", `{"usuario":`)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "validation_error", res["error"])
	})

	t.Run("duplicate username and email reports both in errores", func(t *testing.T) {
		// alice already exists; reuse both her username and her email.
		code, res := doJSON(t, router, http.MethodPost, "/api/registro", "",
			`{"usuario":"alice","email":"alice@example.com","password":"other"}`)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "conflict", res["error"])

		details, ok := res["errores"].([]any)
		require.True(t, ok, "expected errores array, got %v", res)
		assert.Len(t, details, 2)
	})
}

func TestLogin(t *testing.T) {
	router := newTestRouter(t)
	registerAndLogin(t, router, "alice")

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		codeWrong, resWrong := doJSON(t, router, http.MethodPost, "/api/login", "",
			`{"usuario":"alice","password":"nope"}`)
		codeUnknown, resUnknown := doJSON(t, router, http.MethodPost, "/api/login", "",
			`{"usuario":"nobody","password":"nope"}`)

		assert.Equal(t, http.StatusBadRequest, codeWrong)
		assert.Equal(t, http.StatusBadRequest, codeUnknown)
		assert.Equal(t, resWrong["message"], resUnknown["message"])
	})

	t.Run("success returns token and usuario", func(t *testing.T) {
		code, res := doJSON(t, router, http.MethodPost, "/api/login", "",
			`{"usuario":"alice","password":"hunter22"}`)

		assert.Equal(t, http.StatusOK, code)
		assert.NotEmpty(t, res["token"])
		assert.Equal(t, "alice", res["usuario"])
	})
}

func TestAuthGuard(t *testing.T) {
	router := newTestRouter(t)

	t.Run("missing token is 401", func(t *testing.T) {
		code, res := doJSON(t, router, http.MethodGet, "/api/user/profile/me", "", "")

		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "unauthorized", res["error"])
	})

	t.Run("garbage token is 403", func(t *testing.T) {
		code, res := doJSON(t, router, http.MethodGet, "/api/user/profile/me", "not-a-jwt", "")

		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, "forbidden", res["error"])
	})

	t.Run("token signed with another secret is 403", func(t *testing.T) {
		other, err := auth.NewTokenService("a-completely-different-secret")
		require.NoError(t, err)
		token, err := other.Generate(auth.Identity{UserID: "x", Username: "x"})
		require.NoError(t, err)

		code, _ := doJSON(t, router, http.MethodGet, "/api/user/profile/me", token, "")
		assert.Equal(t, http.StatusForbidden, code)
	})
}

func TestProfile(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice")

	t.Run("public profile never exposes the password hash", func(t *testing.T) {
		code, res := doJSON(t, router, http.MethodGet, "/api/user/alice", "", "")

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "alice", res["usuario"])
		assert.NotContains(t, res, "passwordHash")
		assert.NotContains(t, res, "password_hash")
		assert.NotEmpty(t, res["fechaRegistro"])
	})

	t.Run("unknown username is 404", func(t *testing.T) {
		code, res := doJSON(t, router, http.MethodGet, "/api/user/nobody", "", "")

		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "not_found", res["error"])
	})

	t.Run("me returns own profile with empty lists as arrays", func(t *testing.T) {
		code, res := doJSON(t, router, http.MethodGet, "/api/user/profile/me", token, "")

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "alice", res["usuario"])
		// Empty lists must be [], not null — the client iterates them blindly.
		wants, ok := res["wants"].([]any)
		require.True(t, ok, "wants missing or null: %v", res["wants"])
		assert.Empty(t, wants)
		sells, ok := res["sells"].([]any)
		require.True(t, ok, "sells missing or null: %v", res["sells"])
		assert.Empty(t, sells)
	})
}

// TestWantsLifecycle walks one card through the full wants flow: add with
// defaults, duplicate rejection, appearance in the profile, update, removal,
// idempotent re-removal.
func TestWantsLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice")

	t.Run("add applies defaults", func(t *testing.T) {
		code, res := doJSON(t, router, http.MethodPost, "/api/user/wants", token,
			`{"cardId":"c1","cardName":"Black Lotus"}`)

		require.Equal(t, http.StatusOK, code)
		card, ok := res["card"].(map[string]any)
		require.True(t, ok, "response missing card: %v", res)

		assert.Equal(t, "c1", card["cardId"])
		assert.Equal(t, float64(1), card["quantity"])
		assert.Equal(t, "English", card["language"])
		assert.Equal(t, false, card["foil"])
		assert.Equal(t, float64(0), card["price"])
		assert.NotEmpty(t, card["dateAdded"])
	})

	t.Run("duplicate add is a 400 conflict", func(t *testing.T) {
		code, res := doJSON(t, router, http.MethodPost, "/api/user/wants", token,
			`{"cardId":"c1","cardName":"Black Lotus"}`)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "conflict", res["error"])
	})

	t.Run("same card in sells is fine", func(t *testing.T) {
		code, _ := doJSON(t, router, http.MethodPost, "/api/user/sells", token,
			`{"cardId":"c1","cardName":"Black Lotus","price":12000.50}`)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("card shows up in the profile", func(t *testing.T) {
		code, res := doJSON(t, router, http.MethodGet, "/api/user/profile/me", token, "")
		require.Equal(t, http.StatusOK, code)

		wants := res["wants"].([]any)
		require.Len(t, wants, 1)
		card := wants[0].(map[string]any)
		assert.Equal(t, "c1", card["cardId"])
	})

	t.Run("update changes only the sent fields", func(t *testing.T) {
		code, _ := doJSON(t, router, http.MethodPut, "/api/user/wants/c1", token,
			`{"quantity":3,"foil":true}`)
		require.Equal(t, http.StatusOK, code)

		_, res := doJSON(t, router, http.MethodGet, "/api/user/profile/me", token, "")
		card := res["wants"].([]any)[0].(map[string]any)
		assert.Equal(t, float64(3), card["quantity"])
		assert.Equal(t, true, card["foil"])
		assert.Equal(t, "Black Lotus", card["cardName"])
	})

	t.Run("update of an absent card is a quiet 200", func(t *testing.T) {
		code, _ := doJSON(t, router, http.MethodPut, "/api/user/wants/ghost", token,
			`{"quantity":5}`)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("remove empties the list", func(t *testing.T) {
		code, _ := doJSON(t, router, http.MethodDelete, "/api/user/wants/c1", token, "")
		require.Equal(t, http.StatusOK, code)

		_, res := doJSON(t, router, http.MethodGet, "/api/user/profile/me", token, "")
		wants, ok := res["wants"].([]any)
		require.True(t, ok)
		assert.Empty(t, wants)
		// The sells copy is untouched.
		assert.Len(t, res["sells"].([]any), 1)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		code, _ := doJSON(t, router, http.MethodDelete, "/api/user/wants/c1", token, "")
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("missing cardId on add is 400", func(t *testing.T) {
		code, res := doJSON(t, router, http.MethodPost, "/api/user/wants", token,
			`{"cardName":"No ID"}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "validation_error", res["error"])
	})
}

// TestListIsolation verifies two users never see each other's lists.
func TestListIsolation(t *testing.T) {
	router := newTestRouter(t)
	aliceToken := registerAndLogin(t, router, "alice")
	bobToken := registerAndLogin(t, router, "bob")

	code, _ := doJSON(t, router, http.MethodPost, "/api/user/wants", aliceToken,
		`{"cardId":"c1","cardName":"Shivan Dragon"}`)
	require.Equal(t, http.StatusOK, code)

	// Bob can add the same card — the uniqueness is per user, per list.
	code, _ = doJSON(t, router, http.MethodPost, "/api/user/wants", bobToken,
		`{"cardId":"c1","cardName":"Shivan Dragon"}`)
	assert.Equal(t, http.StatusOK, code)

	// Bob's delete doesn't touch Alice's entry.
	code, _ = doJSON(t, router, http.MethodDelete, "/api/user/wants/c1", bobToken, "")
	require.Equal(t, http.StatusOK, code)

	_, res := doJSON(t, router, http.MethodGet, "/api/user/profile/me", aliceToken, "")
	assert.Len(t, res["wants"].([]any), 1)
}

func TestStatusEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("root welcomes", func(t *testing.T) {
		code, res := doJSON(t, router, http.MethodGet, "/", "", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "OK", res["status"])
	})

	t.Run("status reports database connected", func(t *testing.T) {
		code, res := doJSON(t, router, http.MethodGet, "/api/status", "", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "connected", res["database"])
		assert.Equal(t, "test", res["environment"])
	})

	t.Run("basic status has a timestamp and no database field", func(t *testing.T) {
		code, res := doJSON(t, router, http.MethodGet, "/api/basic-status", "", "")
		assert.Equal(t, http.StatusOK, code)
		assert.NotEmpty(t, res["timestamp"])
		assert.NotContains(t, res, "database")
	})
}
