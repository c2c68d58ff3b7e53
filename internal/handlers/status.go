package handlers

import (
	_ "embed"
	"errors"
	"net/http"

	"irrigation_controller/internal/models"
	"irrigation_controller/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	msgSaved = "Configuration saved"

	errGetStatus       = "failed to load status"
	errApplyConfig     = "failed to apply configuration"
	errInvalidBodyPref = "invalid body: "

	statusTemplate = "status.html"
)

//go:embed templates/status.html
var statusPage string

// pageData feeds templates/status.html.
type pageData struct {
	View    models.StatusView
	Message string
	Failed  bool
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// httpStatusFor maps domain errors to HTTP codes: malformed input 400,
// unknown zone 404, a well-formed but rejected configuration 422.
func httpStatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMalformedSubmission), errors.Is(err, service.ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnknownZone):
		return http.StatusNotFound
	case errors.Is(err, models.ErrOutOfBounds), errors.Is(err, models.ErrInvalidRange):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// rejectedField returns the field named by a submission or validation error.
func rejectedField(err error) string {
	var se *service.SubmissionError
	if errors.As(err, &se) {
		return se.Field
	}
	var fe *models.FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Status page
// @Description  HTML page with the current humidity and one form per zone.
// @Tags         status
// @Produce      html
// @Success      200
// @Router       / [get]
func (h *Handler) statusPage(c *gin.Context) {
	view, err := h.services.Monitoring.Status(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("status_failed", "err", err)
		}
		c.String(http.StatusInternalServerError, errGetStatus)
		return
	}
	c.HTML(http.StatusOK, statusTemplate, pageData{View: view})
}

// @Summary      Submit zone form
// @Description  Applies one zone's form. The page is rendered again on success and on rejection.
// @Tags         status
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        zone          formData  string  true  "morning | afternoon"
// @Param        enabled       formData  string  true  "on | off"
// @Param        start_time    formData  string  true  "HH:MM"
// @Param        min_humidity  formData  number  true  "0-100"
// @Param        max_humidity  formData  number  true  "0-100"
// @Success      200
// @Failure      400
// @Failure      422
// @Router       / [post]
func (h *Handler) submitForm(c *gin.Context) {
	var sub service.ZoneSubmission
	// binding errors leave fields empty; Apply reports them as malformed
	_ = c.ShouldBind(&sub)

	view, err := h.services.Config.Apply(c.Request.Context(), sub)
	if err != nil {
		code := httpStatusFor(err)
		if code == http.StatusInternalServerError {
			h.logAndHTMLError(c, err)
			return
		}
		if h.log != nil {
			h.log.Infow("config_rejected", "zone", sub.Zone, "field", rejectedField(err), "err", err)
		}
		c.HTML(code, statusTemplate, pageData{View: view, Message: err.Error(), Failed: true})
		return
	}
	if h.log != nil {
		h.log.Infow("config_updated", "zone", sub.Zone)
	}
	c.HTML(http.StatusOK, statusTemplate, pageData{View: view, Message: msgSaved})
}

func (h *Handler) logAndHTMLError(c *gin.Context, err error) {
	if h.log != nil {
		h.log.Errorw("config_apply_failed", "err", err)
	}
	c.String(http.StatusInternalServerError, errApplyConfig)
}

// @Summary      Current status
// @Tags         status
// @Produce      json
// @Success      200  {object}  models.StatusView
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/status [get]
func (h *Handler) getStatus(c *gin.Context) {
	view, err := h.services.Monitoring.Status(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetStatus, "status_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
