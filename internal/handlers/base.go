package handlers

import (
	"errors"
	"net/http"

	"farejo/internal/middleware"
	"farejo/internal/models"
	"farejo/internal/store"
	"farejo/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Render helper to inject common variables like the flash notice
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if notice, exists := c.Get(middleware.NoticeKey); exists {
		obj["Notice"] = notice
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// HTMX Redirect helper
func HtmxRedirect(c *gin.Context, path string) {
	c.Header("HX-Redirect", path)
	c.Status(http.StatusOK) // HTMX handles the redirect on client side via header
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Title": "Erro", "Error": message})
}

// statusForError maps store sentinels to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalidListing),
		errors.Is(err, store.ErrInvalidSighting),
		errors.Is(err, store.ErrInvalidReport):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// apiResponse is the envelope of every JSON endpoint.
type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, apiResponse{Success: true, Message: message, Data: data})
}

func respondFail(c *gin.Context, code int, message string) {
	c.JSON(code, apiResponse{Success: false, Error: message})
}

// respondError logs server-side failures and hides their details from clients.
func respondError(c *gin.Context, err error) {
	code := statusForError(err)
	if code >= http.StatusInternalServerError {
		utils.LogError(err, "request failed")
		respondFail(c, code, "Não foi possível salvar as alterações. Tente novamente.")
		return
	}
	respondFail(c, code, err.Error())
}

// publicListing hides contact details the owner did not make public.
func publicListing(l models.Listing) models.Listing {
	l.Contact.Phone = l.Contact.PublicPhone()
	l.Contact.Email = ""
	return l
}

func publicListings(listings []models.Listing) []models.Listing {
	out := make([]models.Listing, len(listings))
	for i, l := range listings {
		out[i] = publicListing(l)
	}
	return out
}

// searchFilters reads the filter from the query string. "location" is the
// single search box; explicit city/neighborhood params take precedence.
// A malformed query is logged and whatever was bound is still used.
func searchFilters(c *gin.Context) models.SearchFilters {
	var f models.SearchFilters
	if err := c.ShouldBindQuery(&f); err != nil {
		utils.LogWithFields(logrus.Fields{"query": c.Request.URL.RawQuery, "error": err.Error()}).Warn("invalid search query")
	}
	f.SetLocation(c.Query("location"))
	return f
}
