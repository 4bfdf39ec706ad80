package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"farejo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeShowsFourRecentOpenListings(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, env.create(t, lostDog()).ID)
	}
	_, err := env.store.UpdateStatus(context.Background(), ids[4], models.StatusResolved)
	require.NoError(t, err)

	w := env.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ids[3]+";"+ids[2]+";"+ids[1]+";"+ids[0]+";", w.Body.String())
}

func TestListPageFilters(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	lost := env.create(t, lostDog())
	env.create(t, foundDog())

	w := env.get("/listings?location=" + url.QueryEscape("Vila Mariana"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, lost.ID+";|markers=1", w.Body.String())
}

func TestDetailPage(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	lost := env.create(t, lostDog())
	found := env.create(t, foundDog())

	w := env.get("/listings/" + lost.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "phone=11999999999")
	assert.Contains(t, w.Body.String(), "match="+found.ID)

	w = env.get("/listings/" + found.ID)
	assert.Contains(t, w.Body.String(), "phone=|")

	w = env.get("/listings/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "error=")

	w = env.get("/listings/" + lost.ID + "/poster")
	assert.Equal(t, "poster="+lost.ID, w.Body.String())
}

func TestSightingFormShowsNotice(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	lost := env.create(t, lostDog())

	w := env.postForm("/listings/"+lost.ID+"/sightings", url.Values{
		"location":    {"Parque Ibirapuera"},
		"description": {"Estava perto do lago"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/listings/"+lost.ID+"#avistamentos", w.Header().Get("Location"))

	w = env.get("/listings/" + lost.ID)
	assert.Contains(t, w.Body.String(), "notice=Obrigado!")
	assert.Contains(t, w.Body.String(), "sightings=1")

	// the flash is shown once
	w = env.get("/listings/" + lost.ID)
	assert.NotContains(t, w.Body.String(), "notice=")

	w = env.postForm("/listings/"+lost.ID+"/sightings", url.Values{"location": {"Parque"}})
	require.Equal(t, http.StatusFound, w.Code)
	w = env.get("/listings/" + lost.ID)
	assert.Contains(t, w.Body.String(), "Verifique os campos")
	assert.Contains(t, w.Body.String(), "sightings=1")

	w = env.postForm("/listings/missing/sightings", url.Values{"location": {"x"}, "description": {"y"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportForm(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	lost := env.create(t, lostDog())

	w := env.postForm("/listings/"+lost.ID+"/reports", url.Values{"reason": {"Anúncio falso"}})
	require.Equal(t, http.StatusFound, w.Code)
	reports := env.store.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, lost.ID, reports[0].ListingID)

	w = env.postForm("/listings/"+lost.ID+"/reports", url.Values{"reason": {"  "}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Len(t, env.store.Reports(), 1)
}

func TestAdminActions(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	lost := env.create(t, lostDog())
	found := env.create(t, foundDog())
	report, err := env.store.AddReport(context.Background(), found.ID, "spam")
	require.NoError(t, err)

	w := env.get("/admin")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "total=2|reports=1", w.Body.String())

	req, _ := http.NewRequest(http.MethodPost, "/admin/listings/"+lost.ID+"/resolve", nil)
	req.Header.Set("HX-Request", "true")
	w = env.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get("HX-Refresh"))
	got, err := env.store.Get(lost.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, got.Status)

	req, _ = http.NewRequest(http.MethodPost, "/admin/listings/"+lost.ID+"/resolve", nil)
	req.Header.Set("HX-Request", "true")
	w = env.do(req)
	assert.Equal(t, http.StatusConflict, w.Code)

	req, _ = http.NewRequest(http.MethodDelete, "/admin/reports/"+report.ID, nil)
	req.Header.Set("HX-Request", "true")
	w = env.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.store.Reports())

	req, _ = http.NewRequest(http.MethodDelete, "/admin/listings/"+found.ID, nil)
	w = env.do(req)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
	assert.Len(t, env.store.Listings(), 1)

	// resolved listings still show up in the admin panel
	w = env.get("/admin")
	assert.Equal(t, "total=1|reports=0", w.Body.String())
}

func TestSEO(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	lost := env.create(t, lostDog())
	resolved := env.create(t, foundDog())
	_, err := env.store.UpdateStatus(context.Background(), resolved.ID, models.StatusResolved)
	require.NoError(t, err)

	w := env.get("/robots.txt")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Disallow: /api/")
	assert.Contains(t, w.Body.String(), "Sitemap: http://farejo.test/sitemap.xml")

	w = env.get("/sitemap.xml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http://farejo.test/listings/"+lost.ID)
	assert.NotContains(t, w.Body.String(), resolved.ID)

	w = env.get("/feed.xml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bolinha")
	assert.NotContains(t, w.Body.String(), resolved.ID)
}
