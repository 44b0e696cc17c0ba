package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/router"
	"inkwell/internal/store/memstore"
	"inkwell/internal/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	engine *gin.Engine
	store  *memstore.Store
	tokens *token.Service
}

func newTestAPI(t *testing.T, ttl time.Duration) *testAPI {
	t.Helper()

	mem := memstore.New()
	bl, err := token.NewMemoryBlacklist(64)
	require.NoError(t, err)
	tokens := token.NewService("test-secret", ttl, bl, mem.Users())

	engine := router.New(router.Deps{
		Users:    mem.Users(),
		Posts:    mem.Posts(),
		Tags:     mem.Tags(),
		Comments: mem.Comments(),
		Stats:    mem.Stats(),
		Tokens:   tokens,
		Log:      zerolog.Nop(),
	})
	return &testAPI{engine: engine, store: mem, tokens: tokens}
}

func (a *testAPI) do(t *testing.T, method, path, bearer string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), "body: %s", w.Body.String())
	}
	return w, decoded
}

// register creates an account through the public endpoint and returns its token.
func (a *testAPI) register(t *testing.T, nome, email string) (userID, bearer string) {
	t.Helper()

	w, body := a.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"nome":     nome,
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %v", body)
	user := body["user"].(map[string]interface{})
	return user["id"].(string), body["token"].(string)
}

func TestHealthEndpoints(t *testing.T) {
	api := newTestAPI(t, time.Hour)

	w, body := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])

	w, body = api.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["pong"])
}

func TestRegister(t *testing.T) {
	api := newTestAPI(t, time.Hour)

	w, body := api.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"nome":     "Ana Silva",
		"email":    "ana@example.com",
		"password": "secret123",
		"telefone": "11999990000",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User registered successfully.", body["message"])
	assert.NotEmpty(t, body["token"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, "Ana Silva", user["nome"])
	assert.Equal(t, "ana@example.com", user["email"])
	assert.Equal(t, "11999990000", user["telefone"])
	assert.Equal(t, true, user["is_valid"])
	assert.NotContains(t, user, "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	api := newTestAPI(t, time.Hour)
	api.register(t, "Ana", "ana@example.com")

	w, body := api.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"nome":     "Outra Ana",
		"email":    "ana@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "The given data was invalid.", body["message"])
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "email")
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI(t, time.Hour)

	w, body := api.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email":    "not-an-email",
		"password": "123",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "The given data was invalid.", body["message"])

	errs := body["errors"].(map[string]interface{})
	// errors are keyed by the wire field names
	assert.Contains(t, errs, "nome")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	nomeErrs := errs["nome"].([]interface{})
	assert.Equal(t, "The nome field is required.", nomeErrs[0])
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t, time.Hour)
	api.register(t, "Ana", "ana@example.com")

	w, body := api.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "ana@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Login successful.", body["message"])
	assert.NotEmpty(t, body["token"])

	w, body = api.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "ana@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials. Check your email and password.", body["message"])

	w, body = api.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "nobody@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials. Check your email and password.", body["message"])
}

func TestAuthRequired(t *testing.T) {
	api := newTestAPI(t, time.Hour)

	w, body := api.do(t, http.MethodGet, "/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token not provided", body["message"])

	w, body = api.do(t, http.MethodGet, "/auth/me", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token invalid", body["message"])
}

func TestAuthExpiredToken(t *testing.T) {
	api := newTestAPI(t, -time.Minute)
	_, bearer := api.register(t, "Ana", "ana@example.com")

	w, body := api.do(t, http.MethodGet, "/auth/me", bearer, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token expired", body["message"])
}

func TestMe(t *testing.T) {
	api := newTestAPI(t, time.Hour)
	userID, bearer := api.register(t, "Ana", "ana@example.com")

	w, body := api.do(t, http.MethodGet, "/auth/me", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, userID, data["id"])
	assert.Equal(t, "ana@example.com", data["email"])
}

func TestLogoutRevokesToken(t *testing.T) {
	api := newTestAPI(t, time.Hour)
	_, bearer := api.register(t, "Ana", "ana@example.com")

	w, body := api.do(t, http.MethodPost, "/auth/logout", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logout successful.", body["message"])

	w, body = api.do(t, http.MethodGet, "/auth/me", bearer, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token invalid", body["message"])
}

func TestRefreshRotatesToken(t *testing.T) {
	api := newTestAPI(t, time.Hour)
	_, old := api.register(t, "Ana", "ana@example.com")

	w, body := api.do(t, http.MethodPost, "/auth/refresh", old, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fresh := body["data"].(map[string]interface{})["token"].(string)
	require.NotEqual(t, old, fresh)

	// the new token works, the old one was revoked
	w, _ = api.do(t, http.MethodGet, "/auth/me", fresh, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, body = api.do(t, http.MethodGet, "/auth/me", old, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token invalid", body["message"])
}

func TestUserCRUD(t *testing.T) {
	api := newTestAPI(t, time.Hour)
	_, bearer := api.register(t, "Admin", "admin@example.com")

	w, body := api.do(t, http.MethodPost, "/users", bearer, gin.H{
		"nome":     "Carlos",
		"email":    "carlos@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := body["data"].(map[string]interface{})
	id := created["id"].(string)
	assert.Equal(t, true, created["is_valid"])

	w, body = api.do(t, http.MethodGet, "/users/"+id, bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Carlos", body["data"].(map[string]interface{})["nome"])

	w, body = api.do(t, http.MethodPut, "/users/"+id, bearer, gin.H{
		"nome":     "Carlos Souza",
		"is_valid": false,
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := body["data"].(map[string]interface{})
	assert.Equal(t, "Carlos Souza", updated["nome"])
	assert.Equal(t, false, updated["is_valid"])

	// taking another account's email is a field error
	w, body = api.do(t, http.MethodPut, "/users/"+id, bearer, gin.H{
		"email": "admin@example.com",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, body["errors"].(map[string]interface{}), "email")

	w, body = api.do(t, http.MethodDelete, "/users/"+id, bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User removed successfully.", body["message"])

	w, body = api.do(t, http.MethodGet, "/users/"+id, bearer, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found.", body["message"])
}

func TestUserIndexPagination(t *testing.T) {
	api := newTestAPI(t, time.Hour)
	_, bearer := api.register(t, "Admin", "admin@example.com")
	for i := 1; i <= 4; i++ {
		api.register(t, fmt.Sprintf("User %d", i), fmt.Sprintf("user%d@example.com", i))
	}

	w, body := api.do(t, http.MethodGet, "/users?page=2&per_page=2", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Users listed successfully.", body["message"])
	assert.Len(t, body["data"].([]interface{}), 2)

	meta := body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 2, meta["current_page"])
	assert.EqualValues(t, 3, meta["last_page"])
	assert.EqualValues(t, 2, meta["per_page"])
	assert.EqualValues(t, 5, meta["total"])
	assert.EqualValues(t, 3, meta["from"])
	assert.EqualValues(t, 4, meta["to"])

	// per_page is clamped to 100
	w, body = api.do(t, http.MethodGet, "/users?per_page=500", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 100, body["pagination"].(map[string]interface{})["per_page"])

	// pages past the end are empty with zeroed bounds
	w, body = api.do(t, http.MethodGet, "/users?page=9&per_page=2", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["data"])
	meta = body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 0, meta["from"])
	assert.EqualValues(t, 0, meta["to"])
}

func TestPostLifecycle(t *testing.T) {
	api := newTestAPI(t, time.Hour)
	userID, bearer := api.register(t, "Ana", "ana@example.com")

	w, body := api.do(t, http.MethodPost, "/posts", bearer, gin.H{
		"title":   "Learning Go",
		"content": "Interfaces and goroutines.",
		"author":  userID,
		"tags":    []string{"go", "web"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	post := body["data"].(map[string]interface{})
	postID := post["id"].(string)
	assert.Equal(t, []interface{}{"go", "web"}, post["tags"])
	assert.Equal(t, "Ana", post["author"].(map[string]interface{})["nome"])

	// replacing the tag set keeps the dropped tag's row
	w, body = api.do(t, http.MethodPut, "/posts/"+postID, bearer, gin.H{
		"tags": []string{"web", "api"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"api", "web"}, body["data"].(map[string]interface{})["tags"])

	w, body = api.do(t, http.MethodGet, "/tags", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"].([]interface{}), 3)

	w, body = api.do(t, http.MethodGet, "/posts/"+postID, bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	shown := body["data"].(map[string]interface{})
	assert.Equal(t, "Learning Go", shown["title"])
	assert.NotNil(t, shown["comments"])

	w, body = api.do(t, http.MethodDelete, "/posts/"+postID, bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Post removed successfully.", body["message"])

	w, body = api.do(t, http.MethodGet, "/posts/"+postID, bearer, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found.", body["message"])
}

func TestPostUnknownAuthor(t *testing.T) {
	api := newTestAPI(t, time.Hour)
	_, bearer := api.register(t, "Ana", "ana@example.com")

	w, body := api.do(t, http.MethodPost, "/posts", bearer, gin.H{
		"title":   "Orphan",
		"content": "no author",
		"author":  "does-not-exist",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := body["errors"].(map[string]interface{})
	authorErrs := errs["author"].([]interface{})
	assert.Equal(t, "The selected author does not exist.", authorErrs[0])
}

func TestPostIndexFilters(t *testing.T) {
	api := newTestAPI(t, time.Hour)
	userID, bearer := api.register(t, "Ana", "ana@example.com")

	for _, p := range []gin.H{
		{"title": "Learning Go", "content": "goroutines", "author": userID, "tags": []string{"go"}},
		{"title": "Cooking pasta", "content": "carbonara", "author": userID, "tags": []string{"food"}},
	} {
		w, _ := api.do(t, http.MethodPost, "/posts", bearer, p)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, body := api.do(t, http.MethodGet, "/posts?tag=go", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Learning Go", data[0].(map[string]interface{})["title"])

	w, body = api.do(t, http.MethodGet, "/posts?query=carbonara", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Cooking pasta", data[0].(map[string]interface{})["title"])

	w, body = api.do(t, http.MethodGet, "/posts", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"].([]interface{}), 2)
	assert.EqualValues(t, 2, body["pagination"].(map[string]interface{})["total"])
}

func TestComments(t *testing.T) {
	api := newTestAPI(t, time.Hour)
	userID, bearer := api.register(t, "Ana", "ana@example.com")

	w, body := api.do(t, http.MethodPost, "/posts", bearer, gin.H{
		"title": "Post", "content": "body", "author": userID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	postID := body["data"].(map[string]interface{})["id"].(string)

	w, body = api.do(t, http.MethodPost, "/posts/"+postID+"/comments", bearer, gin.H{
		"content": "Great write-up!",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	comment := body["data"].(map[string]interface{})
	commentID := comment["id"].(string)
	assert.Equal(t, postID, comment["post_id"])
	assert.Equal(t, "Ana", comment["user"].(map[string]interface{})["nome"])

	// commenting on a missing post
	w, body = api.do(t, http.MethodPost, "/posts/missing/comments", bearer, gin.H{
		"content": "hello?",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found.", body["message"])

	// the comment shows up on the post
	w, body = api.do(t, http.MethodGet, "/posts/"+postID, bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := body["data"].(map[string]interface{})["comments"].([]interface{})
	require.Len(t, comments, 1)

	// deleting through the wrong post is a miss
	w, body = api.do(t, http.MethodDelete, "/posts/other/comments/"+commentID, bearer, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Comment not found.", body["message"])

	w, body = api.do(t, http.MethodDelete, "/posts/"+postID+"/comments/"+commentID, bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Comment removed successfully.", body["message"])

	w, _ = api.do(t, http.MethodDelete, "/posts/"+postID+"/comments/"+commentID, bearer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTagsAPI(t *testing.T) {
	api := newTestAPI(t, time.Hour)
	_, bearer := api.register(t, "Ana", "ana@example.com")

	w, body := api.do(t, http.MethodPost, "/tags", bearer, gin.H{"name": "go"})
	require.Equal(t, http.StatusCreated, w.Code)
	tag := body["data"].(map[string]interface{})
	tagID := tag["id"].(string)
	assert.EqualValues(t, 0, tag["posts_count"])

	w, body = api.do(t, http.MethodPost, "/tags", bearer, gin.H{"name": "go"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := body["errors"].(map[string]interface{})
	nameErrs := errs["name"].([]interface{})
	assert.Equal(t, "This tag name already exists.", nameErrs[0])

	w, body = api.do(t, http.MethodPut, "/tags/"+tagID, bearer, gin.H{"name": "golang"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "golang", body["data"].(map[string]interface{})["name"])

	w, body = api.do(t, http.MethodGet, "/tags", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"].([]interface{}), 1)

	w, body = api.do(t, http.MethodDelete, "/tags/"+tagID, bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Tag removed successfully.", body["message"])

	w, body = api.do(t, http.MethodGet, "/tags/"+tagID, bearer, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Tag not found.", body["message"])
}

func TestDashboard(t *testing.T) {
	api := newTestAPI(t, time.Hour)
	userID, bearer := api.register(t, "Ana", "ana@example.com")

	w, body := api.do(t, http.MethodPost, "/posts", bearer, gin.H{
		"title": "Dashboard post", "content": "body", "author": userID, "tags": []string{"go"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	postID := body["data"].(map[string]interface{})["id"].(string)

	w, _ = api.do(t, http.MethodPost, "/posts/"+postID+"/comments", bearer, gin.H{"content": "hi"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, body = api.do(t, http.MethodGet, "/dashboard/stats", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})

	users := data["users"].(map[string]interface{})
	assert.EqualValues(t, 1, users["total"])
	assert.EqualValues(t, 1, users["active"])
	assert.EqualValues(t, 0, users["inactive"])

	posts := data["posts"].(map[string]interface{})
	assert.EqualValues(t, 1, posts["total"])
	assert.EqualValues(t, 1, data["tags"])
	assert.EqualValues(t, 1, data["comments"])

	recent := data["recent_posts"].([]interface{})
	require.Len(t, recent, 1)
	entry := recent[0].(map[string]interface{})
	assert.Equal(t, "Dashboard post", entry["title"])
	assert.Equal(t, "Ana", entry["author"])

	popular := data["popular_tags"].([]interface{})
	require.Len(t, popular, 1)
	assert.EqualValues(t, 1, popular[0].(map[string]interface{})["posts_count"])

	w, body = api.do(t, http.MethodGet, "/dashboard/activity", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := body["data"].([]interface{})
	require.Len(t, feed, 2)
	for _, raw := range feed {
		item := raw.(map[string]interface{})
		assert.Contains(t, []string{"post_created", "comment_added"}, item["type"])
		assert.Equal(t, "Ana", item["user"])
	}
}
