// internal/server/server.go
package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"brandassets/internal/assets"
	"brandassets/internal/models"
)

type Server struct {
	cfg    *models.Config
	router *gin.Engine
	svc    *assets.Service
}

func NewServer(cfg *models.Config, svc *assets.Service) *Server {
	r := gin.Default()
	r.Static(cfg.PublicPrefix, cfg.StoragePath)

	s := &Server{cfg: cfg, router: r, svc: svc}

	r.POST("/:subjectType/:subjectID/images/:kind", s.handleUpload)
	r.DELETE("/:subjectType/:subjectID/images/:kind", s.handleDelete)
	r.GET("/:subjectType/:subjectID/images", s.handleShow)
	r.PATCH("/:subjectType/:subjectID/images/settings", s.handleUpdateSettings)
	r.GET("/:subjectType/:subjectID/images/effective", s.handleEffective)

	return s
}

func (s *Server) Start() error {
	return s.router.Run(s.cfg.ServerAddr)
}

func (s *Server) Stop() {
	// No shutdown needed for gin
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleUpload(c *gin.Context) {
	const op = "server.handleUpload"

	subject, ok := s.subjectParam(c)
	if !ok {
		return
	}

	kindParam := c.Param("kind")
	kind, ok := models.ParseKind(kindParam)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": gin.H{kindParam: []string{assets.Code(assets.ErrUnsupportedType)}},
		})
		return
	}

	// The multipart field is named after the kind (banner or logo).
	file, err := c.FormFile(string(kind))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("missing file field %q", kind)})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%s: %v", op, err)})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%s: %v", op, err)})
		return
	}

	rec, err := s.svc.Upload(c.Request.Context(), subject, kind, data, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		if assets.IsClientError(err) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"errors": gin.H{string(kind): []string{assets.Code(err)}},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%s: %v", op, err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message":                  fmt.Sprintf("%s uploaded", kind),
			string(kind) + "_url":      s.svc.URL(rec),
			string(kind) + "_metadata": metadataJSON(rec),
		},
	})
}

func (s *Server) handleDelete(c *gin.Context) {
	const op = "server.handleDelete"

	subject, ok := s.subjectParam(c)
	if !ok {
		return
	}

	kindParam := c.Param("kind")
	kind, ok := models.ParseKind(kindParam)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": gin.H{kindParam: []string{assets.Code(assets.ErrUnsupportedType)}},
		})
		return
	}

	if err := s.svc.Delete(c.Request.Context(), subject, kind); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%s: %v", op, err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": fmt.Sprintf("%s removed", kind)},
	})
}

func (s *Server) handleShow(c *gin.Context) {
	const op = "server.handleShow"

	subject, ok := s.subjectParam(c)
	if !ok {
		return
	}

	recs, err := s.svc.Show(c.Request.Context(), subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%s: %v", op, err)})
		return
	}

	data := gin.H{}
	for _, kind := range []models.Kind{models.KindBanner, models.KindLogo} {
		if rec := recs[kind]; rec != nil {
			data[string(kind)] = gin.H{
				"url":      s.svc.URL(rec),
				"metadata": metadataJSON(rec),
			}
		} else {
			data[string(kind)] = nil
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

type settingsRequest struct {
	CompanyID        *uuid.UUID `json:"company_id"`
	UseCompanyBanner *bool      `json:"use_company_banner"`
	UseCompanyLogo   *bool      `json:"use_company_logo"`
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	const op = "server.handleUpdateSettings"

	subject, ok := s.subjectParam(c)
	if !ok {
		return
	}
	if subject.Type != models.SubjectListing {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image settings exist only for listings"})
		return
	}

	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := s.svc.UpdateListingSettings(c.Request.Context(), subject.ID, req.CompanyID, req.UseCompanyBanner, req.UseCompanyLogo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%s: %v", op, err)})
		return
	}

	settings, err := s.svc.ListingSettings(c.Request.Context(), subject.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%s: %v", op, err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"use_company_banner": settings.UseCompanyBanner,
			"use_company_logo":   settings.UseCompanyLogo,
		},
	})
}

func (s *Server) handleEffective(c *gin.Context) {
	const op = "server.handleEffective"

	subject, ok := s.subjectParam(c)
	if !ok {
		return
	}
	if subject.Type != models.SubjectListing {
		c.JSON(http.StatusBadRequest, gin.H{"error": "effective images exist only for listings"})
		return
	}

	data := gin.H{}
	for _, kind := range []models.Kind{models.KindBanner, models.KindLogo} {
		url, err := s.svc.Effective(c.Request.Context(), subject.ID, kind)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%s: %v", op, err)})
			return
		}
		if url == "" {
			data[string(kind)+"_url"] = nil
		} else {
			data[string(kind)+"_url"] = url
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func (s *Server) subjectParam(c *gin.Context) (models.Subject, bool) {
	subjectType, ok := models.ParseSubjectType(c.Param("subjectType"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown subject type %q", c.Param("subjectType"))})
		return models.Subject{}, false
	}

	id, err := uuid.Parse(c.Param("subjectID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid subject id: %v", err)})
		return models.Subject{}, false
	}

	return models.Subject{Type: subjectType, ID: id}, true
}

func metadataJSON(rec *models.AssetRecord) gin.H {
	return gin.H{
		"original_name": rec.OriginalName,
		"file_size":     rec.ByteSize,
		"mime_type":     rec.MimeType,
		"dimensions":    gin.H{"width": rec.Width, "height": rec.Height},
		"uploaded_at":   rec.UploadedAt,
	}
}
