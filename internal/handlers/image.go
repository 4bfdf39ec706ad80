package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"farejo/internal/services"
	"farejo/internal/utils"

	"github.com/gin-gonic/gin"
)

const maxImageSize = 10 * 1024 * 1024

// ImageUploader is satisfied by services.ImageService.
type ImageUploader interface {
	Upload(file io.Reader) (*services.ImageUploadResult, error)
}

// ImageHandler 图片上传 Handler
type ImageHandler struct {
	uploader ImageUploader
}

func NewImageHandler(uploader ImageUploader) *ImageHandler {
	return &ImageHandler{uploader: uploader}
}

// Upload 处理图片上传请求 (POST /api/images)，返回可放进 images 的 URL
func (h *ImageHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Selecione uma imagem para enviar")
		return
	}
	defer file.Close()

	// 验证文件类型
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		respondFail(c, http.StatusBadRequest, "Apenas arquivos de imagem são permitidos")
		return
	}

	// 验证文件大小（限制 10MB）
	if header.Size > maxImageSize {
		respondFail(c, http.StatusBadRequest, "A imagem deve ter no máximo 10MB")
		return
	}

	result, err := h.uploader.Upload(file)
	if err != nil {
		if errors.Is(err, services.ErrImgurNotConfigured) {
			respondFail(c, http.StatusServiceUnavailable, "Envio de imagens indisponível. Informe a URL da foto.")
			return
		}
		utils.LogError(err, "image upload failed")
		respondFail(c, http.StatusBadGateway, "Falha no envio da imagem")
		return
	}

	respondOK(c, http.StatusOK, "", result)
}
