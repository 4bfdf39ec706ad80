package handlers

import (
	"net/http"

	"farejo/internal/middleware"
	"farejo/internal/models"
	"farejo/internal/store"
	"farejo/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	store *store.Store
}

func NewAdminHandler(st *store.Store) *AdminHandler {
	return &AdminHandler{store: st}
}

// reportRow 举报 + 被举报信息的名称（信息可能已被删除）
type reportRow struct {
	models.Report
	ListingName string
	ListingGone bool
}

// Dashboard 管理后台：所有信息（不经过筛选）+ 举报列表
func (h *AdminHandler) Dashboard(c *gin.Context) {
	listings := h.store.Listings()
	names := make(map[string]string, len(listings))
	for _, l := range listings {
		names[l.ID] = l.DisplayName() + " · " + l.Breed
	}

	reports := h.store.Reports()
	rows := make([]reportRow, len(reports))
	for i, r := range reports {
		name, ok := names[r.ListingID]
		rows[i] = reportRow{Report: r, ListingName: name, ListingGone: !ok}
	}

	stats := h.store.Stats()
	Render(c, http.StatusOK, "admin/dashboard.html", gin.H{
		"Title":    "Painel administrativo",
		"Listings": listings,
		"Reports":  rows,
		"Total":    len(listings),
		"Lost":     stats[models.StatusLost],
		"Found":    stats[models.StatusFound],
		"Resolved": stats[models.StatusResolved],
		"Tab":      c.DefaultQuery("tab", "listings"),
	})
}

// Resolve 标记为已解决
func (h *AdminHandler) Resolve(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.UpdateStatus(c.Request.Context(), id, models.StatusResolved); err != nil {
		h.fail(c, err)
		return
	}
	h.log(id, "listing resolved")
	h.done(c, "Anúncio marcado como resolvido.")
}

// DeleteListing 删除信息，同时删除指向它的举报
func (h *AdminHandler) DeleteListing(c *gin.Context) {
	id := c.Param("id")
	removed, err := h.store.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.LogWithFields(logrus.Fields{"listing_id": id, "reports_removed": removed}).Info("listing deleted")
	h.done(c, "Anúncio excluído.")
}

// DismissReport 忽略举报
func (h *AdminHandler) DismissReport(c *gin.Context) {
	if err := h.store.DismissReport(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	if isHTMX(c) {
		// HTMX 直接移除该行
		c.Status(http.StatusOK)
		return
	}
	middleware.SetNotice(c, "Denúncia descartada.")
	c.Redirect(http.StatusFound, "/admin?tab=reports")
}

func (h *AdminHandler) done(c *gin.Context, notice string) {
	middleware.SetNotice(c, notice)
	if isHTMX(c) {
		c.Header("HX-Refresh", "true")
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminHandler) fail(c *gin.Context, err error) {
	code := statusForError(err)
	if code >= http.StatusInternalServerError {
		utils.LogError(err, "admin action failed")
	}
	if isHTMX(c) {
		c.Status(code)
		return
	}
	middleware.SetNotice(c, "Não foi possível concluir a ação.")
	c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminHandler) log(id, msg string) {
	utils.LogWithFields(logrus.Fields{"listing_id": id}).Info(msg)
}
