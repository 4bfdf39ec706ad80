package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"farejo/internal/middleware"
	"farejo/internal/models"
	"farejo/internal/services"
	"farejo/internal/store"
	"farejo/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	draftSessionKey = "submission_draft"
	wizardSteps     = 3
)

var submissionKinds = map[string]models.Status{
	"perdido":    models.StatusLost,
	"encontrado": models.StatusFound,
}

// submissionDraft 是三步表单在 session 中保存的中间状态
type submissionDraft struct {
	Kind    string         `json:"kind"`
	Step    int            `json:"step"` // 已解锁的最大步骤
	Listing models.Listing `json:"listing"`
}

type SubmitHandler struct {
	store      *store.Store
	geocoder   services.Geocoder
	llmService *services.LLMService
}

func NewSubmitHandler(st *store.Store, geocoder services.Geocoder, llm *services.LLMService) *SubmitHandler {
	if geocoder == nil {
		geocoder = services.NoopGeocoder{}
	}
	if llm == nil {
		llm = services.NewLLMService(nil)
	}
	return &SubmitHandler{store: st, geocoder: geocoder, llmService: llm}
}

// Choose 选择"我丢了狗"还是"我找到一只狗"
func (h *SubmitHandler) Choose(c *gin.Context) {
	Render(c, http.StatusOK, "submit/choose.html", gin.H{"Title": "Anunciar"})
}

func (h *SubmitHandler) ShowStep(c *gin.Context) {
	kind := c.Param("kind")
	if _, ok := submissionKinds[kind]; !ok {
		RenderError(c, http.StatusNotFound, "Página não encontrada")
		return
	}

	draft := loadDraft(c, kind)
	step := utils.StringToInt(c.Query("step"), 1)
	if step < 1 {
		step = 1
	}
	if step > draft.Step {
		step = draft.Step
	}

	Render(c, http.StatusOK, "submit/step.html", gin.H{
		"Title":      wizardTitle(kind),
		"Kind":       kind,
		"IsLost":     draft.Listing.Status == models.StatusLost,
		"Step":       step,
		"Steps":      wizardSteps,
		"Draft":      draft.Listing,
		"Images":     strings.Join(draft.Listing.Images, "\n"),
		"Sizes":      []models.Size{models.SizeSmall, models.SizeMedium, models.SizeLarge},
		"Genders":    []models.Gender{models.GenderMale, models.GenderFemale, models.GenderUnknown},
		"LLMEnabled": h.llmService.Enabled(),
	})
}

// Submit 处理每一步的表单提交。action: back / next / describe / publish
func (h *SubmitHandler) Submit(c *gin.Context) {
	kind := c.Param("kind")
	if _, ok := submissionKinds[kind]; !ok {
		RenderError(c, http.StatusNotFound, "Página não encontrada")
		return
	}

	draft := loadDraft(c, kind)
	step := utils.StringToInt(c.PostForm("step"), 1)
	if step < 1 || step > draft.Step {
		step = draft.Step
	}
	mergeStep(&draft.Listing, step, c)

	switch c.PostForm("action") {
	case "back":
		h.saveAndGo(c, draft, step-1)

	case "describe":
		h.describe(c, &draft)
		h.saveAndGo(c, draft, step)

	case "publish":
		if err := validateStep(draft.Listing, step); err != nil || step != wizardSteps {
			middleware.SetNotice(c, stepNotice(err))
			h.saveAndGo(c, draft, step)
			return
		}
		h.publish(c, draft)

	default:
		if err := validateStep(draft.Listing, step); err != nil {
			middleware.SetNotice(c, stepNotice(err))
			h.saveAndGo(c, draft, step)
			return
		}
		if draft.Step < step+1 {
			draft.Step = min(step+1, wizardSteps)
		}
		h.saveAndGo(c, draft, step+1)
	}
}

func (h *SubmitHandler) describe(c *gin.Context, draft *submissionDraft) {
	l := draft.Listing
	text, err := h.llmService.GenerateDescription(c.Request.Context(), services.DescriptionDraft{
		Status:       l.Status,
		Name:         l.Name,
		Breed:        l.Breed,
		Color:        l.Color,
		Size:         l.Size,
		Gender:       l.Gender,
		Age:          l.Age,
		City:         l.Location.City,
		Neighborhood: l.Location.Neighborhood,
		Behavior:     l.Behavior,
		Collar:       l.Collar,
	})
	if err != nil {
		utils.LogError(err, "description generation failed")
		middleware.SetNotice(c, "Não foi possível gerar a descrição agora. Escreva com suas palavras ou tente novamente.")
		return
	}
	draft.Listing.Description = text
}

func (h *SubmitHandler) publish(c *gin.Context, draft submissionDraft) {
	listing := draft.Listing
	services.Locate(c.Request.Context(), h.geocoder, &listing)

	created, err := h.store.Create(c.Request.Context(), listing)
	if err != nil {
		middleware.SetNotice(c, noticeFor(err, "Não foi possível publicar o anúncio."))
		h.saveAndGo(c, draft, wizardSteps)
		return
	}

	session := sessions.Default(c)
	session.Delete(draftSessionKey)
	session.AddFlash("Anúncio publicado! Compartilhe para que mais pessoas vejam.", "notice")
	if err := session.Save(); err != nil {
		utils.LogError(err, "failed to clear submission draft")
	}
	utils.LogWithFields(logrus.Fields{"listing_id": created.ID, "status": created.Status}).Info("listing published")
	c.Redirect(http.StatusFound, "/listings/"+created.ID)
}

func (h *SubmitHandler) saveAndGo(c *gin.Context, draft submissionDraft, step int) {
	if step < 1 {
		step = 1
	}
	if err := saveDraft(c, draft); err != nil {
		utils.LogError(err, "failed to save submission draft")
		middleware.SetNotice(c, "Não foi possível guardar o rascunho. Tente textos mais curtos.")
	}
	c.Redirect(http.StatusFound, "/submit/"+draft.Kind+"?step="+strconv.Itoa(step))
}

// loadDraft returns the draft for kind, starting a fresh one when the
// session holds none or holds a draft of the other kind.
func loadDraft(c *gin.Context, kind string) submissionDraft {
	session := sessions.Default(c)
	if raw, ok := session.Get(draftSessionKey).(string); ok {
		var draft submissionDraft
		if err := json.Unmarshal([]byte(raw), &draft); err == nil && draft.Kind == kind {
			if draft.Step < 1 {
				draft.Step = 1
			}
			return draft
		}
	}
	return submissionDraft{
		Kind: kind,
		Step: 1,
		Listing: models.Listing{
			Status:  submissionKinds[kind],
			Size:    models.SizeMedium,
			Gender:  models.GenderUnknown,
			Date:    time.Now().Format("2006-01-02"),
			Contact: models.Contact{ShowPhonePublicly: true},
		},
	}
}

func saveDraft(c *gin.Context, draft submissionDraft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	session := sessions.Default(c)
	session.Set(draftSessionKey, string(raw))
	return session.Save()
}

// mergeStep copies the fields of one wizard step from the posted form.
func mergeStep(l *models.Listing, step int, c *gin.Context) {
	form := func(key string) string { return utils.SanitizeText(c.PostForm(key)) }

	switch step {
	case 1:
		l.Name = form("name")
		l.Breed = form("breed")
		l.Color = form("color")
		l.Size = models.Size(form("size"))
		if l.Size == "" {
			l.Size = models.SizeMedium
		}
		l.Gender = models.Gender(form("gender"))
		if l.Gender == "" {
			l.Gender = models.GenderUnknown
		}
		l.Age = form("age")
		l.Behavior = form("behavior")
		l.Collar = form("collar")
		l.IsDocile = c.PostForm("is_docile") == "on"
		l.Description = strings.TrimSpace(c.PostForm("description"))
		l.Images = splitImages(c.PostForm("images"))
	case 2:
		l.Date = form("date")
		l.Time = form("time")
		l.Location.State = strings.ToUpper(form("state"))
		l.Location.City = form("city")
		l.Location.Neighborhood = form("neighborhood")
		l.Location.Reference = form("reference")
	case 3:
		l.Contact.Name = form("contact_name")
		l.Contact.Phone = form("contact_phone")
		l.Contact.Email = form("contact_email")
		l.Contact.ShowPhonePublicly = c.PostForm("show_phone") == "on"
	}
}

var errStepIncomplete = errors.New("campos obrigatórios em branco")

func validateStep(l models.Listing, step int) error {
	missing := func(values ...string) bool {
		for _, v := range values {
			if strings.TrimSpace(v) == "" {
				return true
			}
		}
		return false
	}

	switch step {
	case 1:
		if missing(l.Breed, l.Color) || (l.Status == models.StatusLost && missing(l.Name)) {
			return errStepIncomplete
		}
		if !l.Size.Valid() || !l.Gender.Valid() {
			return errStepIncomplete
		}
	case 2:
		if missing(l.Location.City, l.Date) {
			return errStepIncomplete
		}
		if _, err := time.Parse("2006-01-02", l.Date); err != nil {
			return errStepIncomplete
		}
	case 3:
		if missing(l.Contact.Name, l.Contact.Phone) {
			return errStepIncomplete
		}
	}
	return nil
}

func stepNotice(err error) string {
	if err == nil {
		return "Conclua todas as etapas antes de publicar."
	}
	return "Preencha os campos obrigatórios para continuar."
}

func splitImages(raw string) []string {
	var images []string
	for _, line := range strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == ',' }) {
		if line = strings.TrimSpace(line); strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") || strings.HasPrefix(line, "/static/") {
			images = append(images, line)
		}
	}
	return images
}

func wizardTitle(kind string) string {
	if kind == "encontrado" {
		return "Encontrei um cachorro"
	}
	return "Perdi meu cachorro"
}
