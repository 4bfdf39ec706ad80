package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"farejo/internal/services"
	"farejo/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, images bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New(store.NewMemoryBackend(nil))
	require.NoError(t, st.Load(context.Background()))

	deps := Deps{
		Store:    st,
		Geocoder: services.NoopGeocoder{},
		LLM:      services.NewLLMService(nil),
		SiteURL:  "http://farejo.test",
	}
	if images {
		deps.Images = services.NewImageService("")
	}

	r := gin.New()
	r.Use(sessions.Sessions("farejo_test", cookie.NewStore([]byte("secret"))))
	RegisterRoutes(r, deps)
	return r
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := serve(newRouter(t, false), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestAPIRoutesRegistered(t *testing.T) {
	r := newRouter(t, false)

	w := serve(r, http.MethodGet, "/api/listings")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	w = serve(r, http.MethodGet, "/api/admin/reports")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/robots.txt")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestImageRouteOnlyWhenConfigured(t *testing.T) {
	w := serve(newRouter(t, false), http.MethodPost, "/api/images")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// without a file the handler answers before touching Imgur
	w = serve(newRouter(t, true), http.MethodPost, "/api/images")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
