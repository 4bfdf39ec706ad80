package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

var ErrImgurNotConfigured = errors.New("IMGUR_CLIENT_ID 未配置")

// ImgurResponse Imgur API 响应结构
type ImgurResponse struct {
	Data struct {
		ID   string `json:"id"`
		Link string `json:"link"`
		Type string `json:"type"`
	} `json:"data"`
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

type ImageUploadResult struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// ImageService uploads listing photos to Imgur anonymously.
type ImageService struct {
	ClientID string
	Endpoint string
	client   *http.Client
}

func NewImageService(clientID string) *ImageService {
	return &ImageService{
		ClientID: clientID,
		Endpoint: "https://api.imgur.com/3/image",
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *ImageService) Enabled() bool {
	return s.ClientID != ""
}

// Upload sends the file as base64 form data and returns the public link.
func (s *ImageService) Upload(file io.Reader) (*ImageUploadResult, error) {
	if !s.Enabled() {
		return nil, ErrImgurNotConfigured
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)
	if err := writer.WriteField("image", base64.StdEncoding.EncodeToString(fileBytes)); err != nil {
		return nil, fmt.Errorf("写入请求体失败: %w", err)
	}
	if err := writer.WriteField("type", "base64"); err != nil {
		return nil, fmt.Errorf("写入请求体失败: %w", err)
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, s.Endpoint, &requestBody)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+s.ClientID)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("上传请求失败: %w", err)
	}
	defer resp.Body.Close()

	var imgurResp ImgurResponse
	if err := json.NewDecoder(resp.Body).Decode(&imgurResp); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}
	if !imgurResp.Success {
		return nil, fmt.Errorf("Imgur 上传失败: status %d", imgurResp.Status)
	}

	return &ImageUploadResult{
		URL: imgurResp.Data.Link,
		ID:  imgurResp.Data.ID,
	}, nil
}
