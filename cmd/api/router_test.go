package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-catalog/internal/config"
	infraCache "library-catalog/internal/infrastructure/cache"
	"library-catalog/internal/testutil"
	"library-catalog/pkg/container"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	app    *container.Container
	staff  string
	member string
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	gin.SetMode(gin.TestMode)

	cfg := testutil.Config()
	for _, fn := range mutate {
		fn(cfg)
	}

	app, err := container.New(cfg, testutil.NewStore(t), infraCache.NewMemoryCache())
	require.NoError(t, err)

	staff, _, err := app.JWTManager.GenerateAccessToken(uuid.NewString(), "librarian", true)
	require.NoError(t, err)
	member, _, err := app.JWTManager.GenerateAccessToken(uuid.NewString(), "reader", false)
	require.NoError(t, err)

	return &testServer{t: t, router: SetupRouter(app), app: app, staff: staff, member: member}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestReadsAreOpen(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/authors/", "/genres/", "/books/"} {
		w := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()), path)
	}
}

func TestMutationsRequireStaff(t *testing.T) {
	s := newTestServer(t)
	body := map[string]interface{}{"name": "Drama"}

	w := s.do(http.MethodPost, "/genres/", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/genres/", s.member, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/genres/", s.staff, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["id"].(string)

	w = s.do(http.MethodGet, "/genres/"+id+"/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete} {
		w = s.do(method, "/genres/"+id+"/", s.member, body)
		assert.Equal(t, http.StatusForbidden, w.Code, method)
	}

	w = s.do(http.MethodDelete, "/genres/"+id+"/", s.staff, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestAuthenticatedPolicy(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.Auth.MutationPolicy = "authenticated" })

	w := s.do(http.MethodPost, "/genres/", s.member, map[string]interface{}{"name": "Essays"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/genres/", "", map[string]interface{}{"name": "Letters"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInvalidTokenRejected(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/authors/", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthorLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/authors/", s.staff, map[string]interface{}{
		"first_name":    "Jane",
		"last_name":     "Austen",
		"date_of_birth": "1775-12-16",
		"date_of_death": "1817-07-18",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	id := created["id"].(string)
	assert.Equal(t, "Jane", created["first_name"])
	assert.Equal(t, "1775-12-16", created["date_of_birth"])
	assert.NotNil(t, created["age"])

	w = s.do(http.MethodPatch, "/authors/"+id+"/", s.staff, map[string]interface{}{"first_name": "J."})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "J.", decode(t, w)["first_name"])

	w = s.do(http.MethodDelete, "/authors/"+id+"/", s.staff, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/authors/"+id+"/", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidationErrorsAreFieldMaps(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/books/", s.staff, map[string]interface{}{
		"title":      "",
		"summary":    strings.Repeat("x", 1025),
		"page_count": 0,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Contains(t, body, "title")
	assert.Contains(t, body, "summary")
	assert.Contains(t, body, "page_count")
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/authors/", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+s.staff)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w), "detail")
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)
	missing := uuid.NewString()

	for _, path := range []string{
		"/authors/" + missing + "/",
		"/genres/" + missing + "/",
		"/books/" + missing + "/",
		"/books/not-a-uuid/",
	} {
		w := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}

	w := s.do(http.MethodDelete, "/books/"+missing+"/", s.staff, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookWithReferences(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/authors/", s.staff, map[string]interface{}{"first_name": "Italo", "last_name": "Calvino"})
	require.Equal(t, http.StatusCreated, w.Code)
	authorID := decode(t, w)["id"].(string)

	var genreIDs []string
	for _, name := range []string{"A", "B", "C"} {
		w = s.do(http.MethodPost, "/genres/", s.staff, map[string]interface{}{"name": name})
		require.Equal(t, http.StatusCreated, w.Code)
		genreIDs = append(genreIDs, decode(t, w)["id"].(string))
	}

	w = s.do(http.MethodPost, "/books/", s.staff, map[string]interface{}{
		"title":     "If on a winter's night a traveler",
		"summary":   "You.",
		"author_id": authorID,
		"genre_ids": genreIDs[:2],
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	book := decode(t, w)
	bookID := book["id"].(string)
	assert.Equal(t, authorID, book["author"].(map[string]interface{})["id"])
	assert.Len(t, book["genre"], 2)

	w = s.do(http.MethodPut, "/books/"+bookID+"/", s.staff, map[string]interface{}{"genre_ids": genreIDs[2:]})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	genres := decode(t, w)["genre"].([]interface{})
	require.Len(t, genres, 1)
	assert.Equal(t, "C", genres[0].(map[string]interface{})["name"])

	w = s.do(http.MethodGet, "/books/?author_id="+authorID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)

	// Deleting the author keeps the book.
	w = s.do(http.MethodDelete, "/authors/"+authorID+"/", s.staff, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/books/"+bookID+"/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode(t, w)["author"])
}

func TestBookUnknownReferenceIsFieldError(t *testing.T) {
	s := newTestServer(t)
	missing := uuid.NewString()

	w := s.do(http.MethodPost, "/books/", s.staff, map[string]interface{}{
		"title": "T", "summary": "S", "author_id": missing,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Author with ID "+missing+" does not exist.", decode(t, w)["author_id"])

	w = s.do(http.MethodPost, "/books/", s.staff, map[string]interface{}{
		"title": "T", "summary": "S", "genre_ids": []string{missing},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w), "genre_ids")
}

func TestDuplicateGenreDirectCreate(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/genres/", s.staff, map[string]interface{}{"name": "Poetry"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/genres/", s.staff, map[string]interface{}{"name": "Poetry"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "genre with this name already exists", decode(t, w)["name"])
}

func TestLegacyPaths(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/genres/create/", s.staff, map[string]interface{}{"name": "Old"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(string)

	w = s.do(http.MethodPut, "/genres/update/"+id+"/", s.staff, map[string]interface{}{"name": "Older"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Older", decode(t, w)["name"])

	w = s.do(http.MethodDelete, "/genres/delete/"+id+"/", s.staff, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSignupAndLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/signup/", "", map[string]interface{}{
		"username":   "reader",
		"email":      "reader@example.com",
		"first_name": "Avid",
		"last_name":  "Reader",
		"password":   "correct horse",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode(t, w)
	assert.Equal(t, "reader", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")

	w = s.do(http.MethodPost, "/signup/", "", map[string]interface{}{
		"username": "reader",
		"email":    "second@example.com",
		"password": "correct horse",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w), "username")

	w = s.do(http.MethodPost, "/login/", "", map[string]interface{}{"username": "reader", "password": "correct horse"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode(t, w)
	assert.Equal(t, "Login successful!", login["message"])
	token := login["access_token"].(string)

	// A regular account cannot mutate under the staff policy.
	w = s.do(http.MethodPost, "/genres/", token, map[string]interface{}{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/login/", "", map[string]interface{}{"username": "reader", "password": "wrong password"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, map[string]interface{}{"detail": "invalid username or password"}, decode(t, w))

	w = s.do(http.MethodPost, "/login/", "", map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w), "username")
}

func TestLoginThrottle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/signup/", "", map[string]interface{}{
		"username": "reader", "email": "reader@example.com", "password": "correct horse",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	bad := map[string]interface{}{"username": "reader", "password": "wrong password"}
	for i := 0; i < s.app.Config.Auth.LoginMaxAttempts; i++ {
		w = s.do(http.MethodPost, "/login/", "", bad)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w = s.do(http.MethodPost, "/login/", "", bad)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestExportBooks(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/books/", s.staff, map[string]interface{}{"title": "T", "summary": "S"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/books/export/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	services := body["services"].(map[string]interface{})
	assert.Equal(t, "ok", services["cache"])
	assert.Equal(t, "sqlite", services["database"].(map[string]interface{})["dialect"])
}

func TestGraphQLEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/graphql", s.staff, map[string]interface{}{
		"query": `mutation { createGenre(name: "Myth") { genre { id name } message } }`,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]interface{})
	payload := data["createGenre"].(map[string]interface{})
	assert.Equal(t, "Genre successfully created.", payload["message"])

	w = s.do(http.MethodPost, "/graphql", "", map[string]interface{}{
		"query": `mutation { createGenre(name: "Legend") { message } }`,
	})
	require.Equal(t, http.StatusOK, w.Code)
	errs := decode(t, w)["errors"].([]interface{})
	require.NotEmpty(t, errs)
	assert.Equal(t, "authentication credentials were not provided", errs[0].(map[string]interface{})["message"])

	w = s.do(http.MethodPost, "/graphql", "", map[string]interface{}{"query": `{ genres { name } }`})
	require.Equal(t, http.StatusOK, w.Code)
	genres := decode(t, w)["data"].(map[string]interface{})["genres"].([]interface{})
	assert.Len(t, genres, 1)

	// GET serves queries only.
	get := "/graphql?query=" + url.QueryEscape(`mutation { createGenre(name: "Saga") { message } }`)
	w = s.do(http.MethodGet, get, s.staff, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = s.do(http.MethodGet, "/graphql?query="+url.QueryEscape(`{ genres { name } }`), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	genres = decode(t, w)["data"].(map[string]interface{})["genres"].([]interface{})
	assert.Len(t, genres, 1)
}
