package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"farejo/internal/models"
	"farejo/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepOneForm(name string) url.Values {
	return url.Values{
		"step":        {"1"},
		"action":      {"next"},
		"name":        {name},
		"breed":       {"Labrador"},
		"color":       {"Preto"},
		"size":        {"Grande"},
		"gender":      {"Macho"},
		"description": {"Muito brincalhão"},
		"images":      {"https://example.com/rex.jpg\nnot-a-url"},
	}
}

func TestSubmitWizardPublishesLostListing(t *testing.T) {
	env := newTestEnv(t, envOptions{geocoder: stubGeocoder{pos: services.LatLng{Lat: -22.9, Lng: -47.06}}})

	w := env.get("/submit/perdido")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "step=1")

	// lost dogs need a name
	w = env.postForm("/submit/perdido", stepOneForm(""))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/submit/perdido?step=1", w.Header().Get("Location"))
	w = env.get("/submit/perdido?step=1")
	assert.Contains(t, w.Body.String(), "notice=Preencha os campos obrigatórios")

	w = env.postForm("/submit/perdido", stepOneForm("Rex"))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/submit/perdido?step=2", w.Header().Get("Location"))

	w = env.get("/submit/perdido?step=2")
	assert.Contains(t, w.Body.String(), "step=2|name=Rex")

	w = env.postForm("/submit/perdido", url.Values{
		"step":         {"2"},
		"action":       {"next"},
		"date":         {"2024-05-10"},
		"state":        {"sp"},
		"city":         {"Campinas"},
		"neighborhood": {"Cambuí"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/submit/perdido?step=3", w.Header().Get("Location"))

	w = env.postForm("/submit/perdido", url.Values{
		"step":          {"3"},
		"action":        {"publish"},
		"contact_name":  {"Ana"},
		"contact_phone": {"19999999999"},
		"show_phone":    {"on"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	listings := env.store.Listings()
	require.Len(t, listings, 1)
	l := listings[0]
	assert.Equal(t, "/listings/"+l.ID, w.Header().Get("Location"))
	assert.Equal(t, models.StatusLost, l.Status)
	assert.Equal(t, "Rex", l.Name)
	assert.Equal(t, models.SizeLarge, l.Size)
	assert.Equal(t, []string{"https://example.com/rex.jpg"}, l.Images)
	assert.Equal(t, "SP", l.Location.State)
	assert.Equal(t, -22.9, l.Location.Lat)
	assert.True(t, l.Contact.ShowPhonePublicly)

	w = env.get("/listings/" + l.ID)
	assert.Contains(t, w.Body.String(), "notice=Anúncio publicado!")

	// the draft was cleared
	w = env.get("/submit/perdido")
	assert.Contains(t, w.Body.String(), "step=1|name=|")
}

func TestSubmitWizardCannotSkipSteps(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w := env.get("/submit/encontrado?step=3")
	assert.Contains(t, w.Body.String(), "step=1")

	w = env.postForm("/submit/encontrado", url.Values{
		"step":          {"3"},
		"action":        {"publish"},
		"contact_name":  {"Ana"},
		"contact_phone": {"19999999999"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/submit/encontrado?step=1", w.Header().Get("Location"))
	assert.Empty(t, env.store.Listings())
}

func TestSubmitFoundDogWithoutName(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w := env.postForm("/submit/encontrado", stepOneForm(""))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/submit/encontrado?step=2", w.Header().Get("Location"))

	// switching kind starts a new draft
	w = env.get("/submit/perdido?step=2")
	assert.Contains(t, w.Body.String(), "step=1")
}

func TestSubmitDescribe(t *testing.T) {
	env := newTestEnv(t, envOptions{generator: fakeGenerator{text: "Rex é um labrador preto muito dócil."}})

	form := stepOneForm("Rex")
	form.Set("action", "describe")
	w := env.postForm("/submit/perdido", form)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/submit/perdido?step=1", w.Header().Get("Location"))

	w = env.get("/submit/perdido?step=1")
	assert.Contains(t, w.Body.String(), "desc=Rex é um labrador preto muito dócil.")
}

func TestSubmitDescribeFailureKeepsForm(t *testing.T) {
	env := newTestEnv(t, envOptions{generator: fakeGenerator{err: errors.New("timeout")}})

	form := stepOneForm("Rex")
	form.Set("action", "describe")
	w := env.postForm("/submit/perdido", form)
	require.Equal(t, http.StatusFound, w.Code)

	w = env.get("/submit/perdido?step=1")
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "notice=Não foi possível gerar a descrição"))
	assert.Contains(t, body, "name=Rex")
	assert.Contains(t, body, "desc=Muito brincalhão")
}

func TestSubmitUnknownKind(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	w := env.get("/submit/adotado")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.get("/submit")
	assert.Equal(t, "choose", w.Body.String())
}
