package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"farejo/internal/middleware"
	"farejo/internal/models"
	"farejo/internal/services"
	"farejo/internal/store"
	"farejo/internal/utils"

	"github.com/gin-gonic/gin"
)

const homeRecentCount = 4

type ListingHandler struct {
	store       *store.Store
	mailService *services.MailService
	siteURL     string
}

func NewListingHandler(st *store.Store, mail *services.MailService, siteURL string) *ListingHandler {
	return &ListingHandler{store: st, mailService: mail, siteURL: siteURL}
}

// Home 首页：最近的几条未解决信息 + 搜索框
func (h *ListingHandler) Home(c *gin.Context) {
	Render(c, http.StatusOK, "home.html", gin.H{
		"Title":  "Farejo - Cães perdidos e encontrados",
		"Recent": h.store.Recent(homeRecentCount),
	})
}

// List 列表 + 地图，筛选条件来自 query string
func (h *ListingHandler) List(c *gin.Context) {
	filters := searchFilters(c)
	listings := services.FilterListings(h.store.Listings(), filters)
	markers := services.BuildMarkers(listings)

	Render(c, http.StatusOK, "listing/list.html", gin.H{
		"Title":    "Buscar cães",
		"Listings": listings,
		"Filters":  filters,
		"Location": c.Query("location"),
		"Markers":  markers,
		"Center":   services.Center(markers),
		"View":     c.DefaultQuery("view", "list"),
	})
}

func (h *ListingHandler) Detail(c *gin.Context) {
	listing, err := h.store.Get(c.Param("id"))
	if err != nil {
		RenderError(c, statusForError(err), "Anúncio não encontrado")
		return
	}

	description := utils.SanitizeText(listing.Description)
	if description == "" {
		description = fmt.Sprintf("%s (%s) em %s", listing.DisplayName(), listing.Breed, listing.Location.City)
	}

	Render(c, http.StatusOK, "listing/detail.html", gin.H{
		"Title":           listing.DisplayName() + " - " + listing.Breed,
		"Listing":         listing,
		"DescriptionHTML": utils.EnhanceHTMLContent(string(utils.RenderMarkdown(listing.Description))),
		"Phone":           listing.Contact.PublicPhone(),
		"Matches":         services.PossibleMatches(listing, h.store.Listings()),
		"Description":     utils.Truncate(description, 150),
		"FullURL":         h.siteURL + "/listings/" + listing.ID,
		"ImageURL":        h.absoluteURL(listing.CoverImage()),
	})
}

// Poster 可打印的寻狗启事
func (h *ListingHandler) Poster(c *gin.Context) {
	listing, err := h.store.Get(c.Param("id"))
	if err != nil {
		RenderError(c, statusForError(err), "Anúncio não encontrado")
		return
	}

	Render(c, http.StatusOK, "listing/poster.html", gin.H{
		"Title":   "Cartaz - " + listing.DisplayName(),
		"Listing": listing,
		"Phone":   listing.Contact.PublicPhone(),
		"FullURL": h.siteURL + "/listings/" + listing.ID,
	})
}

// CreateSighting 表单提交目击记录
func (h *ListingHandler) CreateSighting(c *gin.Context) {
	id := c.Param("id")
	sighting := models.Sighting{
		Date:        c.PostForm("date"),
		Time:        c.PostForm("time"),
		Location:    utils.SanitizeText(c.PostForm("location")),
		Description: utils.SanitizeText(c.PostForm("description")),
	}

	created, err := h.store.AddSighting(c.Request.Context(), id, sighting)
	if err != nil {
		if statusForError(err) == http.StatusNotFound {
			RenderError(c, http.StatusNotFound, "Anúncio não encontrado")
			return
		}
		middleware.SetNotice(c, noticeFor(err, "Não foi possível registrar o avistamento."))
		c.Redirect(http.StatusFound, "/listings/"+id+"#avistamentos")
		return
	}

	h.notifySighting(id, created)
	middleware.SetNotice(c, "Obrigado! Seu avistamento foi registrado.")
	c.Redirect(http.StatusFound, "/listings/"+id+"#avistamentos")
}

// CreateReport 举报不当信息
func (h *ListingHandler) CreateReport(c *gin.Context) {
	id := c.Param("id")
	reason := utils.SanitizeText(c.PostForm("reason"))

	if _, err := h.store.AddReport(c.Request.Context(), id, reason); err != nil {
		if statusForError(err) == http.StatusNotFound {
			RenderError(c, http.StatusNotFound, "Anúncio não encontrado")
			return
		}
		middleware.SetNotice(c, noticeFor(err, "Não foi possível enviar a denúncia."))
		c.Redirect(http.StatusFound, "/listings/"+id)
		return
	}

	middleware.SetNotice(c, "Denúncia enviada. Obrigado por ajudar a manter o Farejo seguro.")
	c.Redirect(http.StatusFound, "/listings/"+id)
}

func (h *ListingHandler) notifySighting(listingID string, sighting models.Sighting) {
	if h.mailService == nil {
		return
	}
	listing, err := h.store.Get(listingID)
	if err != nil {
		return
	}
	h.mailService.SendSightingNotification(listing, sighting, h.siteURL+"/listings/"+listingID+"#avistamentos")
}

func (h *ListingHandler) absoluteURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return h.siteURL + path
}

// noticeFor turns a validation error into a user-facing notice. Anything else
// gets the generic fallback.
func noticeFor(err error, fallback string) string {
	if statusForError(err) == http.StatusBadRequest {
		return fallback + " Verifique os campos obrigatórios."
	}
	utils.LogError(err, fallback)
	return fallback + " Tente novamente."
}
