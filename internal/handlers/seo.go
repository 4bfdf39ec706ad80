package handlers

import (
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"farejo/internal/store"
	"farejo/internal/utils"

	"github.com/gin-gonic/gin"
)

type SEOHandler struct {
	store   *store.Store
	siteURL string
}

func NewSEOHandler(st *store.Store, siteURL string) *SEOHandler {
	return &SEOHandler{store: st, siteURL: siteURL}
}

// RobotsTxt 返回robots.txt内容
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

# 禁止爬取管理后台和表单
Disallow: /admin
Disallow: /submit

# 禁止爬取API端点
Disallow: /api/

# Sitemap位置
Sitemap: %s/sitemap.xml

Crawl-delay: 1
`, h.siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

// SitemapXML 动态生成sitemap.xml，只包含未解决的信息
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	now := time.Now().Format("2006-01-02")

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`)

	writeURL := func(loc, lastmod, changefreq string, priority float64) {
		fmt.Fprintf(&b, `  <url>
    <loc>%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>%s</changefreq>
    <priority>%.1f</priority>
  </url>
`, escapeXML(loc), lastmod, changefreq, priority)
	}

	writeURL(h.siteURL+"/", now, "daily", 1.0)
	writeURL(h.siteURL+"/listings", now, "hourly", 0.9)

	for _, l := range h.store.Listings() {
		if !l.Status.Open() {
			continue
		}
		// 越新的信息越重要
		priority := 0.6
		changefreq := "weekly"
		if days := time.Since(l.CreatedAt).Hours() / 24; days < 7 {
			priority = 0.8
			changefreq = "daily"
		}
		writeURL(h.siteURL+"/listings/"+l.ID, l.CreatedAt.Format("2006-01-02"), changefreq, priority)
	}

	b.WriteString(`</urlset>`)

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

// RSSFeed 最新的未解决信息 (RSS 2.0)
func (h *SEOHandler) RSSFeed(c *gin.Context) {
	listings := h.store.Recent(20)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
  <channel>
    <title>Farejo - Cães perdidos e encontrados</title>
    <link>` + h.siteURL + `</link>
    <description>Anúncios recentes de cães perdidos e encontrados</description>
    <language>pt-BR</language>
    <lastBuildDate>` + time.Now().Format(time.RFC1123Z) + `</lastBuildDate>
    <atom:link href="` + h.siteURL + `/feed.xml" rel="self" type="application/rss+xml"/>
`)

	for _, l := range listings {
		link := fmt.Sprintf("%s/listings/%s", h.siteURL, l.ID)
		title := fmt.Sprintf("[%s] %s - %s, %s", l.Status, l.DisplayName(), l.Breed, l.Location.City)

		b.WriteString(`    <item>
      <title>` + escapeXML(title) + `</title>
      <link>` + link + `</link>
      <description><![CDATA[` + string(utils.RenderMarkdown(l.Description)) + `]]></description>
      <category>` + escapeXML(string(l.Status)) + `</category>
      <pubDate>` + l.CreatedAt.Format(time.RFC1123Z) + `</pubDate>
      <guid isPermaLink="true">` + link + `</guid>
    </item>
`)
	}

	b.WriteString(`  </channel>
</rss>`)

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

// escapeXML 转义XML特殊字符
func escapeXML(s string) string {
	return html.EscapeString(s)
}
