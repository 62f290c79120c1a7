package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"selfie-filter-backend/internal/filters"
	"selfie-filter-backend/internal/models"
	"selfie-filter-backend/internal/services"
)

const (
	msgNameAndImage  = "Nome e imagem são obrigatórios"
	msgInvalidImage  = "Imagem inválida"
	msgInvalidFilter = "Configuração de filtro inválida"
	msgUploadFailed  = "Erro ao fazer upload"
)

// Multipart field names accepted for the image, first match wins.
var imageFields = []string{"imagem", "image", "file", "photo"}

type UploadHandler struct {
	service *services.PhotoService
}

func NewUploadHandler(service *services.PhotoService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload godoc
// @Summary     Upload a selfie
// @Description Saves the image, burns in the selected filter and records the photo.
// @Description A filter that cannot be applied (missing asset, undecodable image) does not fail the upload;
// @Description the photo is stored without it.
// @Tags        upload
// @Accept      multipart/form-data
// @Produce     json
// @Param       imagem       formData file   true  "Image file (also accepted as image, file or photo)"
// @Param       nome         formData string true  "Photo name"
// @Param       filtro       formData string false "Filter id, e.g. coroa; original or empty for none"
// @Param       filterConfig formData string false "JSON placement override {scale, offsetX, offsetY}"
// @Success     201 {object} models.Photo
// @Failure     400 {object} models.ErrorResponse
// @Failure     413 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/fotos/upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondBindError(c, err, "Formulário multipart inválido")
		return
	}

	header := formImage(form)
	name := c.PostForm("nome")
	if header == nil || strings.TrimSpace(name) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgNameAndImage})
		return
	}

	override, err := parseFilterConfig(c.PostForm("filterConfig"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgInvalidFilter, Message: err.Error()})
		return
	}

	data, err := readFile(header)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgInvalidImage, Message: err.Error()})
		return
	}

	h.save(c, services.UploadInput{
		Name:     name,
		Data:     data,
		Ext:      filepath.Ext(header.Filename),
		FilterID: c.PostForm("filtro"),
		Override: override,
	})
}

// UploadBase64 godoc
// @Summary     Upload a selfie as base64
// @Description Same as the multipart upload for clients that send the image inline, as a data URI or bare base64.
// @Tags        upload
// @Accept      json
// @Produce     json
// @Param       request body     models.UploadBase64Request true "Photo with inline image"
// @Success     201     {object} models.Photo
// @Failure     400     {object} models.ErrorResponse
// @Failure     413     {object} models.ErrorResponse
// @Failure     500     {object} models.ErrorResponse
// @Router      /api/fotos/upload-base64 [post]
func (h *UploadHandler) UploadBase64(c *gin.Context) {
	var req models.UploadBase64Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, msgNameAndImage)
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Image) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgNameAndImage})
		return
	}

	data, ext, err := services.DecodeDataURI(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgInvalidImage, Message: err.Error()})
		return
	}

	h.save(c, services.UploadInput{
		Name:     req.Name,
		Data:     data,
		Ext:      ext,
		FilterID: req.Filter,
		Override: req.FilterConfig,
	})
}

func (h *UploadHandler) save(c *gin.Context, in services.UploadInput) {
	photo, err := h.service.Upload(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgNameAndImage, Message: err.Error()})
			return
		}
		slog.Error("Failed to upload photo", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: msgUploadFailed, Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, photo)
}

func formImage(form *multipart.Form) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	for _, field := range imageFields {
		if files := form.File[field]; len(files) > 0 {
			return files[0]
		}
	}
	return nil
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// parseFilterConfig reads the optional placement override sent as a form field.
func parseFilterConfig(raw string) (*filters.Descriptor, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var d filters.Descriptor
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, err
	}
	return &d, nil
}
