package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/panpal/panpal/pkg/auth"
)

type fakeRepo struct {
	mu        sync.Mutex
	favorites map[uint]map[uint]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{favorites: make(map[uint]map[uint]bool)}
}

func (r *fakeRepo) Add(userID, recipeID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.favorites[userID] == nil {
		r.favorites[userID] = make(map[uint]bool)
	}
	if r.favorites[userID][recipeID] {
		return false, nil
	}
	r.favorites[userID][recipeID] = true
	return true, nil
}

func (r *fakeRepo) Remove(userID, recipeID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.favorites[userID][recipeID] {
		return false, nil
	}
	delete(r.favorites[userID], recipeID)
	return true, nil
}

func (r *fakeRepo) ListRecipeIDs(userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for id := range r.favorites[userID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeRepo) IsFavorite(userID, recipeID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.favorites[userID][recipeID], nil
}

func (r *fakeRepo) CountByUser(userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.favorites[userID])), nil
}

func (r *fakeRepo) CountByRecipe(recipeID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, recipes := range r.favorites {
		if recipes[recipeID] {
			n++
		}
	}
	return n, nil
}

// Prometheus collectors register globally, so the handler is built once
// and shared across tests.
var (
	testOnce   sync.Once
	testRepo   *fakeRepo
	testRouter *mux.Router
	testToken  string
	testUserID uint = 7
)

func setup(t *testing.T) (*fakeRepo, *mux.Router, string) {
	t.Helper()
	testOnce.Do(func() {
		testRepo = newFakeRepo()
		handler := NewFavoriteHandler(testRepo, nil)
		testRouter = mux.NewRouter()
		handler.RegisterRoutes(testRouter)

		token, err := auth.GenerateToken(testUserID, "chef_anna", "user")
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		testToken = token
	})

	// Fresh favorites per test
	testRepo.mu.Lock()
	testRepo.favorites = make(map[uint]map[uint]bool)
	testRepo.mu.Unlock()

	return testRepo, testRouter, testToken
}

func doRequest(router *mux.Router, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListIDsRequiresAuth(t *testing.T) {
	_, router, _ := setup(t)

	rec := doRequest(router, "GET", "/api/favorites/ids", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = doRequest(router, "GET", "/api/favorites/ids", "garbage")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status with bad token = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAddListRemoveFlow(t *testing.T) {
	_, router, token := setup(t)

	// Add
	rec := doRequest(router, "POST", "/api/favorites/42", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var addResult struct {
		Added bool  `json:"added"`
		Count int64 `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &addResult); err != nil {
		t.Fatalf("decode add response: %v", err)
	}
	if !addResult.Added || addResult.Count != 1 {
		t.Errorf("add result = %+v, want Added=true Count=1", addResult)
	}

	// Re-add is a no-op
	rec = doRequest(router, "POST", "/api/favorites/42", token)
	if err := json.Unmarshal(rec.Body.Bytes(), &addResult); err != nil {
		t.Fatalf("decode re-add response: %v", err)
	}
	if addResult.Added {
		t.Error("re-add reported Added=true")
	}

	// List
	rec = doRequest(router, "GET", "/api/favorites/ids", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listResult struct {
		IDs   []uint `json:"ids"`
		Count int    `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResult); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if listResult.Count != 1 || len(listResult.IDs) != 1 || listResult.IDs[0] != 42 {
		t.Errorf("list result = %+v, want ids=[42]", listResult)
	}

	// Status
	rec = doRequest(router, "GET", "/api/favorites/42/status", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status status = %d", rec.Code)
	}
	var statusResult struct {
		IsFavorited bool `json:"is_favorited"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &statusResult); err != nil {
		t.Fatalf("decode status response: %v", err)
	}
	if !statusResult.IsFavorited {
		t.Error("status reported not favorited")
	}

	// Remove
	rec = doRequest(router, "DELETE", "/api/favorites/42", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d", rec.Code)
	}
	var removeResult struct {
		Removed bool  `json:"removed"`
		Count   int64 `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &removeResult); err != nil {
		t.Fatalf("decode remove response: %v", err)
	}
	if !removeResult.Removed || removeResult.Count != 0 {
		t.Errorf("remove result = %+v, want Removed=true Count=0", removeResult)
	}
}

func TestInvalidRecipeID(t *testing.T) {
	_, router, token := setup(t)

	rec := doRequest(router, "POST", "/api/favorites/not-a-number", token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHealth(t *testing.T) {
	_, router, _ := setup(t)

	rec := doRequest(router, "GET", "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
