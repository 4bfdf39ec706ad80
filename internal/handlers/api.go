package handlers

import (
	"fmt"
	"net/http"

	"farejo/internal/models"
	"farejo/internal/services"
	"farejo/internal/store"
	"farejo/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// APIHandler serves the JSON API used by the map page and external clients.
type APIHandler struct {
	store       *store.Store
	geocoder    services.Geocoder
	llmService  *services.LLMService
	mailService *services.MailService
	siteURL     string
}

func NewAPIHandler(st *store.Store, geocoder services.Geocoder, llm *services.LLMService, mail *services.MailService, siteURL string) *APIHandler {
	if geocoder == nil {
		geocoder = services.NoopGeocoder{}
	}
	if llm == nil {
		llm = services.NewLLMService(nil)
	}
	return &APIHandler{store: st, geocoder: geocoder, llmService: llm, mailService: mail, siteURL: siteURL}
}

type statusRequest struct {
	Status models.Status `json:"status" binding:"required"`
}

type reportRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type sightingRequest struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// ListListings GET /api/listings
func (h *APIHandler) ListListings(c *gin.Context) {
	listings := services.FilterListings(h.store.Listings(), searchFilters(c))
	respondOK(c, http.StatusOK, "", publicListings(listings))
}

// GetListing GET /api/listings/:id
func (h *APIHandler) GetListing(c *gin.Context) {
	listing, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", publicListing(listing))
}

// CreateListing POST /api/listings
func (h *APIHandler) CreateListing(c *gin.Context) {
	var listing models.Listing
	if err := c.ShouldBindJSON(&listing); err != nil {
		respondFail(c, http.StatusBadRequest, "JSON inválido: "+err.Error())
		return
	}
	listing.Description = utils.SanitizeText(listing.Description)

	services.Locate(c.Request.Context(), h.geocoder, &listing)
	created, err := h.store.Create(c.Request.Context(), listing)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.LogWithFields(logrus.Fields{"listing_id": created.ID, "status": created.Status}).Info("listing created via api")
	respondOK(c, http.StatusCreated, "Anúncio publicado", created)
}

// Matches GET /api/listings/:id/matches
func (h *APIHandler) Matches(c *gin.Context) {
	listing, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", publicListings(services.PossibleMatches(listing, h.store.Listings())))
}

// CreateSighting POST /api/listings/:id/sightings
func (h *APIHandler) CreateSighting(c *gin.Context) {
	var req sightingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "local e descrição são obrigatórios")
		return
	}

	id := c.Param("id")
	sighting, err := h.store.AddSighting(c.Request.Context(), id, models.Sighting{
		Date:        req.Date,
		Time:        req.Time,
		Location:    utils.SanitizeText(req.Location),
		Description: utils.SanitizeText(req.Description),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if h.mailService != nil {
		if listing, err := h.store.Get(id); err == nil {
			h.mailService.SendSightingNotification(listing, sighting, fmt.Sprintf("%s/listings/%s#avistamentos", h.siteURL, id))
		}
	}
	respondOK(c, http.StatusCreated, "Avistamento registrado", sighting)
}

// CreateReport POST /api/listings/:id/reports
func (h *APIHandler) CreateReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "motivo é obrigatório")
		return
	}

	report, err := h.store.AddReport(c.Request.Context(), c.Param("id"), utils.SanitizeText(req.Reason))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Denúncia enviada", report)
}

// Map GET /api/map: markers of the filtered listings plus the map centre.
func (h *APIHandler) Map(c *gin.Context) {
	listings := services.FilterListings(h.store.Listings(), searchFilters(c))
	markers := services.BuildMarkers(listings)
	respondOK(c, http.StatusOK, "", gin.H{
		"markers": markers,
		"center":  services.Center(markers),
		"total":   len(listings),
	})
}

// Describe POST /api/describe
func (h *APIHandler) Describe(c *gin.Context) {
	var draft services.DescriptionDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondFail(c, http.StatusBadRequest, "JSON inválido")
		return
	}

	text, err := h.llmService.GenerateDescription(c.Request.Context(), draft)
	if err != nil {
		utils.LogError(err, "description generation failed")
		respondFail(c, http.StatusBadGateway, "Não foi possível gerar a descrição agora.")
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"description": text})
}

// AdminListings GET /api/admin/listings: every listing, unfiltered, with contact details.
func (h *APIHandler) AdminListings(c *gin.Context) {
	respondOK(c, http.StatusOK, "", gin.H{
		"listings": h.store.Listings(),
		"stats":    h.store.Stats(),
	})
}

// AdminReports GET /api/admin/reports
func (h *APIHandler) AdminReports(c *gin.Context) {
	respondOK(c, http.StatusOK, "", h.store.Reports())
}

// UpdateStatus PATCH /api/admin/listings/:id/status
func (h *APIHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		respondFail(c, http.StatusBadRequest, "status inválido")
		return
	}

	listing, err := h.store.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Status atualizado", listing)
}

// DeleteListing DELETE /api/admin/listings/:id
func (h *APIHandler) DeleteListing(c *gin.Context) {
	removed, err := h.store.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Anúncio excluído", gin.H{"reports_removed": removed})
}

// DismissReport DELETE /api/admin/reports/:id
func (h *APIHandler) DismissReport(c *gin.Context) {
	if err := h.store.DismissReport(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Denúncia descartada", nil)
}
