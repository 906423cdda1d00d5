package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gallery-app/config"
	authapi "gallery-app/internal/api/auth"
	clientsapi "gallery-app/internal/api/clients"
	galleriesapi "gallery-app/internal/api/galleries"
	routes "gallery-app/internal/app/http"
	"gallery-app/internal/blobstore"
	"gallery-app/internal/domain/accounts"
	"gallery-app/internal/gallery"
	"gallery-app/internal/identity"
	"gallery-app/internal/kvstore"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testApp struct {
	router *gin.Engine
	ids    *identity.Service
	svc    *gallery.Service
	blobs  *blobstore.Memory
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.JWT_SECRET = "routes-test-secret"

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "app.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&accounts.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	kv := kvstore.NewMemory()
	blobs := blobstore.NewMemory()
	ids := identity.NewService(db, []byte(config.JWT_SECRET))
	svc := gallery.NewService(kv, blobs, time.Hour)

	r := gin.New()
	routes.RegisterRoutes(r, routes.Handlers{
		Auth:      authapi.NewHandler(ids, svc),
		Clients:   clientsapi.NewHandler(ids, svc),
		Galleries: galleriesapi.NewHandler(svc),
	})
	return &testApp{router: r, ids: ids, svc: svc, blobs: blobs}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

// signupAndLogin registers an admin through the API and returns its token.
func (a *testApp) signupAndLogin(t *testing.T, email string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/admin/signup", "", gin.H{
		"email": email, "password": "sunset1234", "name": "Jane", "businessName": "Jane Photo",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("signup returned %d: %s", w.Code, w.Body.String())
	}
	w = a.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": email, "password": "sunset1234",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}
	token, _ := decode(t, w)["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return token
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)
	w := a.do(t, http.MethodGet, "/api/v1/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health = %d", w.Code)
	}
	if got := decode(t, w)["status"]; got != "ok" {
		t.Errorf("status = %v", got)
	}
}

func TestSignupRejectsWeakInput(t *testing.T) {
	a := newTestApp(t)

	w := a.do(t, http.MethodPost, "/api/v1/admin/signup", "", gin.H{
		"email": "not-an-email", "password": "sunset1234", "name": "X",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad email = %d, want 400", w.Code)
	}

	w = a.do(t, http.MethodPost, "/api/v1/admin/signup", "", gin.H{
		"email": "a@b.co", "password": "short", "name": "X",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("weak password = %d, want 400", w.Code)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	a := newTestApp(t)
	a.signupAndLogin(t, "dup@studio.test")

	w := a.do(t, http.MethodPost, "/api/v1/admin/signup", "", gin.H{
		"email": "dup@studio.test", "password": "sunset1234", "name": "Other",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate signup = %d, want 400", w.Code)
	}
}

func TestBearerTokenRequired(t *testing.T) {
	a := newTestApp(t)

	for _, tc := range []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := a.do(t, http.MethodGet, "/api/v1/admin/galleries", tc.token, nil)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("got %d, want 401", w.Code)
			}
			if msg, ok := decode(t, w)["error"].(string); !ok || msg == "" {
				t.Error("missing error message")
			}
		})
	}
}

func TestClientTokenCannotUseAdminRoutes(t *testing.T) {
	a := newTestApp(t)
	token := a.signupAndLogin(t, "admin@studio.test")

	w := a.do(t, http.MethodPost, "/api/v1/client/create", token, gin.H{
		"email": "viewer@mail.test", "name": "Viewer",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("client create = %d: %s", w.Code, w.Body.String())
	}

	// Mint a token for the client identity and try an admin route.
	client := decode(t, w)["client"].(map[string]any)
	clientToken, err := a.ids.IssueToken(&accounts.User{
		ID: client["id"].(string), Email: "viewer@mail.test", Role: accounts.RoleClient,
	})
	if err != nil {
		t.Fatal(err)
	}

	w = a.do(t, http.MethodGet, "/api/v1/admin/galleries", clientToken, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("client on admin route = %d, want 401", w.Code)
	}
}

func TestGalleryLifecycleOverHTTP(t *testing.T) {
	a := newTestApp(t)
	token := a.signupAndLogin(t, "admin@studio.test")

	// Create.
	w := a.do(t, http.MethodPost, "/api/v1/admin/galleries", token, gin.H{
		"name": "Wedding - Smith", "status": "draft", "privacy": "private",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create = %d: %s", w.Code, w.Body.String())
	}
	created := decode(t, w)["gallery"].(map[string]any)
	galleryID := created["id"].(string)

	// Upload a photo via multipart.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("photo", "beach.jpg")
	fw.Write([]byte("jpeg bytes")) //nolint:errcheck
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/galleries/"+galleryID+"/photos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload = %d: %s", rec.Code, rec.Body.String())
	}
	photo := decode(t, rec)["photo"].(map[string]any)
	if sp, _ := photo["storagePath"].(string); !strings.Contains(sp, galleryID) {
		t.Errorf("storagePath %q is not namespaced by gallery", sp)
	}

	// Update status only.
	w = a.do(t, http.MethodPut, "/api/v1/admin/galleries/"+galleryID, token, gin.H{
		"status": "published",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update = %d: %s", w.Code, w.Body.String())
	}
	updated := decode(t, w)["gallery"].(map[string]any)
	if updated["status"] != "published" || updated["name"] != "Wedding - Smith" {
		t.Errorf("patch semantics broken: %v", updated)
	}

	// List shows one gallery with one photo.
	w = a.do(t, http.MethodGet, "/api/v1/admin/galleries", token, nil)
	list := decode(t, w)["galleries"].([]any)
	if len(list) != 1 {
		t.Fatalf("list = %d galleries, want 1", len(list))
	}

	// Delete.
	w = a.do(t, http.MethodDelete, "/api/v1/admin/galleries/"+galleryID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete = %d: %s", w.Code, w.Body.String())
	}
	if a.blobs.Len() != 0 {
		t.Errorf("%d blobs remain after gallery delete", a.blobs.Len())
	}

	w = a.do(t, http.MethodDelete, "/api/v1/admin/galleries/"+galleryID, token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("delete of deleted gallery = %d, want 404", w.Code)
	}
}

func TestUploadWithoutFileIs400(t *testing.T) {
	a := newTestApp(t)
	token := a.signupAndLogin(t, "admin@studio.test")
	w := a.do(t, http.MethodPost, "/api/v1/admin/galleries", token, gin.H{"name": "G"})
	galleryID := decode(t, w)["gallery"].(map[string]any)["id"].(string)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/galleries/"+galleryID+"/photos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("upload without file = %d, want 400", rec.Code)
	}
}

func TestClientSharingAndFavoriteOverHTTP(t *testing.T) {
	a := newTestApp(t)
	token := a.signupAndLogin(t, "admin@studio.test")

	w := a.do(t, http.MethodPost, "/api/v1/admin/galleries", token, gin.H{"name": "Shared"})
	galleryID := decode(t, w)["gallery"].(map[string]any)["id"].(string)

	w = a.do(t, http.MethodPost, "/api/v1/client/create", token, gin.H{
		"email": "viewer@mail.test", "name": "Viewer",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("client create = %d: %s", w.Code, w.Body.String())
	}
	client := decode(t, w)["client"].(map[string]any)
	clientID := client["id"].(string)
	clientToken, err := a.ids.IssueToken(&accounts.User{
		ID: clientID, Email: "viewer@mail.test", Role: accounts.RoleClient,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Not shared yet: the client sees nothing.
	w = a.do(t, http.MethodGet, "/api/v1/client/galleries", clientToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("client list = %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["galleries"].([]any); len(got) != 0 {
		t.Fatalf("unshared client sees %d galleries", len(got))
	}

	// Share, upload, list again.
	w = a.do(t, http.MethodPut, "/api/v1/admin/galleries/"+galleryID, token, gin.H{
		"clients": []string{clientID},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("share = %d: %s", w.Code, w.Body.String())
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("photo", "one.jpg")
	fmt.Fprint(fw, "bytes")
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/galleries/"+galleryID+"/photos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	photoID := decode(t, rec)["photo"].(map[string]any)["id"].(string)

	w = a.do(t, http.MethodGet, "/api/v1/client/galleries", clientToken, nil)
	shared := decode(t, w)["galleries"].([]any)
	if len(shared) != 1 {
		t.Fatalf("shared client sees %d galleries, want 1", len(shared))
	}
	photos := shared[0].(map[string]any)["photos"].([]any)
	if len(photos) != 1 {
		t.Fatalf("client sees %d photos, want 1", len(photos))
	}
	if url, _ := photos[0].(map[string]any)["url"].(string); url == "" {
		t.Error("photo has no signed url")
	}

	// Toggle favorite twice returns to the original state.
	favPath := "/api/v1/client/galleries/" + galleryID + "/photos/" + photoID + "/favorite"
	w = a.do(t, http.MethodPost, favPath, clientToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("favorite = %d: %s", w.Code, w.Body.String())
	}
	if on := decode(t, w)["isFavorite"].(bool); !on {
		t.Error("first toggle should favorite")
	}
	w = a.do(t, http.MethodPost, favPath, clientToken, nil)
	if on := decode(t, w)["isFavorite"].(bool); on {
		t.Error("second toggle should unfavorite")
	}
}
