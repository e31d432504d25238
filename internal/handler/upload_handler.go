package handler

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	maxUploadSize = 10 << 20
	maxImageWidth = 1600
	jpegQuality   = 80
)

// UploadImage 处理图片上传：校验类型、超宽时等比缩放重编码为 JPEG，
// 以日期加 UUID 命名存入上传目录，返回公开 URL。
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "no image file provided")
		return
	}
	if file.Size > maxUploadSize {
		respondError(c, http.StatusBadRequest, "file too large (max 10MB)")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "only image files are allowed")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to read upload")
		return
	}
	defer src.Close()

	data, ext, err := processUpload(src, filepath.Ext(file.Filename))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid image: "+err.Error())
		return
	}

	if err := os.MkdirAll(a.cfg.UploadDir, 0o755); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create upload directory")
		return
	}

	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	if err := os.WriteFile(filepath.Join(a.cfg.UploadDir, newFilename), data, 0o644); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save file")
		return
	}

	fileURL := fmt.Sprintf("%s/%s", strings.TrimSuffix(a.cfg.UploadURLPath, "/"), newFilename)
	c.JSON(http.StatusOK, gin.H{
		"message": "upload successful",
		"url":     fileURL,
	})
}

// processUpload 解码图片；宽度超限时用 CatmullRom 等比缩放并重编码为
// JPEG，否则原样保留字节与扩展名。
func processUpload(src io.Reader, ext string) ([]byte, string, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxImageWidth {
		return raw, normalizeExt(ext), nil
	}

	newH := h * maxImageWidth / w
	dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), ".jpg", nil
}

func normalizeExt(ext string) string {
	lowered := strings.ToLower(strings.TrimSpace(ext))
	switch lowered {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return lowered
	default:
		return ".jpg"
	}
}
