package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"farejo/internal/middleware"
	"farejo/internal/models"
	"farejo/internal/services"
	"farejo/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// testTemplates print just enough of each page for assertions.
const testTemplates = `
{{define "home.html"}}{{with .Notice}}notice={{.}}|{{end}}{{range .Recent}}{{.ID}};{{end}}{{end}}
{{define "listing/list.html"}}{{range .Listings}}{{.ID}};{{end}}|markers={{len .Markers}}{{end}}
{{define "listing/detail.html"}}{{with .Notice}}notice={{.}}|{{end}}id={{.Listing.ID}}|phone={{.Phone}}|{{range .Matches}}match={{.ID}};{{end}}|sightings={{len .Listing.Sightings}}{{end}}
{{define "listing/poster.html"}}poster={{.Listing.ID}}{{end}}
{{define "submit/choose.html"}}choose{{end}}
{{define "submit/step.html"}}{{with .Notice}}notice={{.}}|{{end}}step={{.Step}}|name={{.Draft.Name}}|desc={{.Draft.Description}}{{end}}
{{define "admin/dashboard.html"}}total={{.Total}}|reports={{len .Reports}}{{end}}
{{define "error.html"}}error={{.Error}}{{end}}
`

type testEnv struct {
	router  *gin.Engine
	store   *store.Store
	backend *store.MemoryBackend
	cookies []*http.Cookie
}

type fakeGenerator struct {
	text string
	err  error
}

func (f fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f.text, f.err
}

type stubGeocoder struct {
	pos services.LatLng
	err error
}

func (s stubGeocoder) Geocode(ctx context.Context, loc models.Location) (services.LatLng, error) {
	return s.pos, s.err
}

type fakeUploader struct {
	result *services.ImageUploadResult
	err    error
}

func (f fakeUploader) Upload(file io.Reader) (*services.ImageUploadResult, error) {
	return f.result, f.err
}

type envOptions struct {
	generator services.TextGenerator
	geocoder  services.Geocoder
	uploader  ImageUploader
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := store.NewMemoryBackend(nil)
	st := store.New(backend)
	require.NoError(t, st.Load(context.Background()))

	r := gin.New()
	r.Use(sessions.Sessions("farejo_test", cookie.NewStore([]byte("test-secret"))))
	r.Use(middleware.LoadNotice())
	r.SetHTMLTemplate(template.Must(template.New("").Parse(testTemplates)))

	geocoder := opts.geocoder
	if geocoder == nil {
		geocoder = services.NoopGeocoder{}
	}
	llm := services.NewLLMService(opts.generator)
	uploader := opts.uploader
	if uploader == nil {
		uploader = fakeUploader{err: services.ErrImgurNotConfigured}
	}

	listing := NewListingHandler(st, nil, "http://farejo.test")
	submit := NewSubmitHandler(st, geocoder, llm)
	admin := NewAdminHandler(st)
	api := NewAPIHandler(st, geocoder, llm, nil, "http://farejo.test")
	seo := NewSEOHandler(st, "http://farejo.test")
	image := NewImageHandler(uploader)

	r.GET("/", listing.Home)
	r.GET("/listings", listing.List)
	r.GET("/listings/:id", listing.Detail)
	r.GET("/listings/:id/poster", listing.Poster)
	r.POST("/listings/:id/sightings", listing.CreateSighting)
	r.POST("/listings/:id/reports", listing.CreateReport)
	r.GET("/submit", submit.Choose)
	r.GET("/submit/:kind", submit.ShowStep)
	r.POST("/submit/:kind", submit.Submit)
	r.GET("/robots.txt", seo.RobotsTxt)
	r.GET("/sitemap.xml", seo.SitemapXML)
	r.GET("/feed.xml", seo.RSSFeed)
	r.GET("/admin", admin.Dashboard)
	r.POST("/admin/listings/:id/resolve", admin.Resolve)
	r.DELETE("/admin/listings/:id", admin.DeleteListing)
	r.DELETE("/admin/reports/:id", admin.DismissReport)
	r.GET("/api/listings", api.ListListings)
	r.POST("/api/listings", api.CreateListing)
	r.GET("/api/listings/:id", api.GetListing)
	r.GET("/api/listings/:id/matches", api.Matches)
	r.POST("/api/listings/:id/sightings", api.CreateSighting)
	r.POST("/api/listings/:id/reports", api.CreateReport)
	r.GET("/api/map", api.Map)
	r.POST("/api/describe", api.Describe)
	r.POST("/api/images", image.Upload)
	r.GET("/api/admin/listings", api.AdminListings)
	r.GET("/api/admin/reports", api.AdminReports)
	r.PATCH("/api/admin/listings/:id/status", api.UpdateStatus)
	r.DELETE("/api/admin/listings/:id", api.DeleteListing)
	r.DELETE("/api/admin/reports/:id", api.DismissReport)

	return &testEnv{router: r, store: st, backend: backend}
}

// do sends the request with the cookies collected so far and keeps the new ones.
func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	// a request may save the session twice; the last cookie wins like in a browser
	for _, set := range w.Result().Cookies() {
		replaced := false
		for i, c := range e.cookies {
			if c.Name == set.Name {
				e.cookies[i] = set
				replaced = true
			}
		}
		if !replaced {
			e.cookies = append(e.cookies, set)
		}
	}
	return w
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	return e.do(req)
}

func (e *testEnv) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

func (e *testEnv) sendJSON(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return e.do(req)
}

func (e *testEnv) create(t *testing.T, l models.Listing) models.Listing {
	t.Helper()
	created, err := e.store.Create(context.Background(), l)
	require.NoError(t, err)
	return created
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if data != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}

func lostDog() models.Listing {
	return models.Listing{
		Name:     "Bolinha",
		Status:   models.StatusLost,
		Breed:    "Poodle",
		Color:    "Branco",
		Location: models.Location{State: "SP", City: "São Paulo", Neighborhood: "Vila Mariana", Lat: -23.58, Lng: -46.63},
		Contact:  models.Contact{Name: "Maria", Phone: "11999999999", Email: "maria@example.com", ShowPhonePublicly: true},
	}
}

func foundDog() models.Listing {
	return models.Listing{
		Status:   models.StatusFound,
		Breed:    "Poodle",
		Color:    "Branco e bege",
		Location: models.Location{State: "SP", City: "são paulo", Neighborhood: "Moema"},
		Contact:  models.Contact{Name: "João", Phone: "11988888888", ShowPhonePublicly: false},
	}
}
