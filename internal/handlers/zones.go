package handlers

import (
	"net/http"
	"strconv"

	"irrigation_controller/internal/service"

	"github.com/gin-gonic/gin"
)

// ZoneRequest is the JSON body of PUT /api/v1/zones/{zone}. Every field is
// required; a missing one rejects the whole request.
type ZoneRequest struct {
	// Whether the zone may water at all
	Enabled *bool `json:"enabled" example:"true"`
	// Start of the daily window, HH:MM
	StartTime string `json:"start_time" example:"06:00"`
	// Start watering at or below this humidity (0-100)
	MinHumidity *float64 `json:"min_humidity" example:"40"`
	// Stop watering at or above this humidity (0-100)
	MaxHumidity *float64 `json:"max_humidity" example:"70"`
}

// submission converts r into the text form the config service validates.
// Nil fields stay empty and are reported as missing.
func (r ZoneRequest) submission(zone string) service.ZoneSubmission {
	sub := service.ZoneSubmission{Zone: zone, StartTime: r.StartTime}
	if r.Enabled != nil {
		sub.Enabled = strconv.FormatBool(*r.Enabled)
	}
	if r.MinHumidity != nil {
		sub.MinHumidity = strconv.FormatFloat(*r.MinHumidity, 'f', -1, 64)
	}
	if r.MaxHumidity != nil {
		sub.MaxHumidity = strconv.FormatFloat(*r.MaxHumidity, 'f', -1, 64)
	}
	return sub
}

// @Summary      Get zone
// @Tags         zones
// @Produce      json
// @Param        zone  path  string  true  "Zone"  Enums(morning,afternoon)
// @Success      200  {object}  models.ZoneStatus
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/zones/{zone} [get]
func (h *Handler) getZone(c *gin.Context) {
	zs, err := h.services.Config.Zone(c.Request.Context(), c.Param("zone"))
	if err != nil {
		code := httpStatusFor(err)
		if code == http.StatusInternalServerError {
			h.logAndJSONError(c, code, errGetStatus, "zone_get_failed", err)
			return
		}
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, zs)
}

// @Summary      Update zone
// @Description  Replaces the zone configuration atomically. Nothing changes when any field is rejected.
// @Tags         zones
// @Accept       json
// @Produce      json
// @Param        zone  path  string       true  "Zone"  Enums(morning,afternoon)
// @Param        body  body  ZoneRequest  true  "Zone configuration"
// @Success      200  {object}  map[string]interface{}  "status, view"
// @Failure      400  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/zones/{zone} [put]
func (h *Handler) putZone(c *gin.Context) {
	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	zone := c.Param("zone")
	view, err := h.services.Config.Apply(c.Request.Context(), req.submission(zone))
	if err != nil {
		code := httpStatusFor(err)
		if code == http.StatusInternalServerError {
			h.logAndJSONError(c, code, errApplyConfig, "config_apply_failed", err, "zone", zone)
			return
		}
		c.JSON(code, gin.H{"error": err.Error(), "field": rejectedField(err), "view": view})
		return
	}
	if h.log != nil {
		h.log.Infow("config_updated", "zone", zone)
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated", "view": view})
}
