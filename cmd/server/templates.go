package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"path/filepath"
	"time"

	"farejo/internal/models"

	"github.com/gin-contrib/multitemplate"
)

var statusLabels = map[models.Status]string{
	models.StatusLost:     "Perdido",
	models.StatusFound:    "Encontrado",
	models.StatusResolved: "Resolvido",
}

var templateFuncs = template.FuncMap{
	"dict": func(values ...interface{}) (map[string]interface{}, error) {
		if len(values)%2 != 0 {
			return nil, fmt.Errorf("invalid dict call")
		}
		dict := make(map[string]interface{}, len(values)/2)
		for i := 0; i < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict keys must be strings")
			}
			dict[key] = values[i+1]
		}
		return dict, nil
	},
	"add": func(a, b int) int {
		return a + b
	},
	"timeAgo": func(t time.Time) string {
		seconds := int(time.Since(t).Seconds())
		switch {
		case seconds < 60:
			return "agora mesmo"
		case seconds < 3600:
			return fmt.Sprintf("há %d min", seconds/60)
		case seconds < 86400:
			return fmt.Sprintf("há %d h", seconds/3600)
		case seconds < 2592000:
			return fmt.Sprintf("há %d dias", seconds/86400)
		case seconds < 31536000:
			return fmt.Sprintf("há %d meses", seconds/2592000)
		}
		return fmt.Sprintf("há %d anos", seconds/31536000)
	},
	// formatDate turns YYYY-MM-DD into DD/MM/YYYY
	"formatDate": func(s string) string {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return s
		}
		return t.Format("02/01/2006")
	},
	"statusLabel": func(s models.Status) string {
		if label, ok := statusLabels[s]; ok {
			return label
		}
		return string(s)
	},
	"statusClass": func(s models.Status) string {
		switch s {
		case models.StatusLost:
			return "badge-lost"
		case models.StatusFound:
			return "badge-found"
		}
		return "badge-resolved"
	},
	"toJSON": func(v interface{}) (template.JS, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return template.JS(b), nil
	},
	"urlquery": func(s string) string {
		return url.QueryEscape(s)
	},
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	includes, err := filepath.Glob(templatesDir + "/includes/*.html")
	if err != nil {
		panic(err)
	}

	// Helper to assemble files: layout first so it is the executed root
	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+len(includes)+1)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, view)
		return files
	}

	views := []string{
		"home.html",
		"listing/list.html",
		"listing/detail.html",
		"submit/choose.html",
		"submit/step.html",
		"admin/dashboard.html",
		"error.html",
	}
	for _, name := range views {
		r.AddFromFilesFuncs(name, templateFuncs, assemble(templatesDir+"/views/"+name)...)
	}

	// 海报是独立的打印页面，不使用 layout
	r.AddFromFilesFuncs("listing/poster.html", templateFuncs, templatesDir+"/views/listing/poster.html")

	return r
}
