package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"selfie-filter-backend/internal/database"
	"selfie-filter-backend/internal/models"
	"selfie-filter-backend/internal/services"
)

const (
	msgInvalidID       = "ID inválido"
	msgPhotoNotFound   = "Foto não encontrada"
	msgNameAndPath     = "Nome e caminho são obrigatórios"
	msgFavoriteNotBool = `Campo "favorita" deve ser booleano`
)

type PhotosHandler struct {
	service *services.PhotoService
}

func NewPhotosHandler(service *services.PhotoService) *PhotosHandler {
	return &PhotosHandler{service: service}
}

// ListPhotos godoc
// @Summary     List photos
// @Description Returns every photo, newest first, each with the absolute URL of its image
// @Tags        photos
// @Produce     json
// @Success     200 {array}  models.PhotoWithURL
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/fotos [get]
func (h *PhotosHandler) ListPhotos(c *gin.Context) {
	photos, err := h.service.List(c.Request.Context())
	if err != nil {
		slog.Error("Failed to list photos", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Erro ao listar fotos"})
		return
	}

	base := baseURL(c)
	response := make([]models.PhotoWithURL, 0, len(photos))
	for _, photo := range photos {
		response = append(response, models.PhotoWithURL{
			Photo: photo,
			URL:   absoluteURL(base, photo.Path),
		})
	}

	c.JSON(http.StatusOK, response)
}

// GetPhoto godoc
// @Summary     Get photo
// @Tags        photos
// @Produce     json
// @Param       id  path     int true "Photo ID"
// @Success     200 {object} models.Photo
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/fotos/{id} [get]
func (h *PhotosHandler) GetPhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	photo, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Erro ao obter foto")
		return
	}

	c.JSON(http.StatusOK, photo)
}

// CreatePhoto godoc
// @Summary     Create photo record
// @Description Records an image that is already stored; no file is written
// @Tags        photos
// @Accept      json
// @Produce     json
// @Param       request body     models.CreatePhotoRequest true "Photo metadata"
// @Success     201     {object} models.Photo
// @Failure     400     {object} models.ErrorResponse
// @Failure     500     {object} models.ErrorResponse
// @Router      /api/fotos [post]
func (h *PhotosHandler) CreatePhoto(c *gin.Context) {
	var req models.CreatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, msgNameAndPath)
		return
	}

	photo, err := h.service.CreateRecord(c.Request.Context(), req.Name, req.Path)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgNameAndPath})
			return
		}
		slog.Error("Failed to create photo", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Erro ao criar foto"})
		return
	}

	c.JSON(http.StatusCreated, photo)
}

// UpdatePhoto godoc
// @Summary     Mark or unmark favorite
// @Description Only a JSON boolean is accepted for favorita
// @Tags        photos
// @Accept      json
// @Produce     json
// @Param       id      path     int                        true "Photo ID"
// @Param       request body     models.UpdatePhotoRequest true "Favorite flag"
// @Success     200     {object} models.Photo
// @Failure     400     {object} models.ErrorResponse
// @Failure     404     {object} models.ErrorResponse
// @Failure     500     {object} models.ErrorResponse
// @Router      /api/fotos/{id} [put]
func (h *PhotosHandler) UpdatePhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.UpdatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Favorite == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgFavoriteNotBool})
		return
	}

	photo, err := h.service.SetFavorite(c.Request.Context(), id, *req.Favorite)
	if err != nil {
		respondStoreError(c, err, "Erro ao atualizar foto")
		return
	}

	c.JSON(http.StatusOK, photo)
}

// DeletePhoto godoc
// @Summary     Delete photo
// @Description Deletes the record and returns it. The stored image is removed as well when file deletion is enabled.
// @Tags        photos
// @Produce     json
// @Param       id  path     int true "Photo ID"
// @Success     200 {object} models.DeletePhotoResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/fotos/{id} [delete]
func (h *PhotosHandler) DeletePhoto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	photo, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "Erro ao deletar foto")
		return
	}

	c.JSON(http.StatusOK, models.DeletePhotoResponse{
		Message: "Foto deletada com sucesso",
		Photo:   *photo,
	})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgInvalidID})
		return 0, false
	}
	return id, true
}

func respondStoreError(c *gin.Context, err error, message string) {
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: msgPhotoNotFound})
		return
	}
	slog.Error(message, "error", err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: message})
}

// respondBindError answers 413 when the body hit its size limit and 400 otherwise.
func respondBindError(c *gin.Context, err error, message string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Error:   "Arquivo muito grande",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: message, Message: err.Error()})
}

// baseURL is the scheme and host the client used to reach the server.
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		switch forwarded := strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0])); forwarded {
		case "http", "https":
			scheme = forwarded
		}
	}
	return scheme + "://" + c.Request.Host
}

func absoluteURL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
