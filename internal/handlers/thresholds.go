package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"station_monitor/internal/service"
)

// ThresholdRequest sets today's limits in seconds.
type ThresholdRequest struct {
	Station string   `json:"station" example:"A1"`
	Alarm1  *float64 `json:"alarm_1" example:"300"`
	Alarm2  *float64 `json:"alarm_2" example:"180"`
}

// @Summary      Today's threshold
// @Tags         thresholds
// @Produce      json
// @Param        station  path      string  true  "Station"
// @Success      200      {object}  map[string]float64  "alarm_1, alarm_2 (seconds)"
// @Failure      404      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /api/station-threshold/{station} [get]
func (h *Handler) getThreshold(c *gin.Context) {
	station := c.Param("station")
	t, err := h.services.GetThreshold(c.Request.Context(), station)
	if err != nil {
		h.respondError(c, err, "station_threshold_get_failed", "station", station)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alarm_1": t.Alarm1, "alarm_2": t.Alarm2})
}

// @Summary      Set today's threshold
// @Description  Rejected with 409 while a timer for the station is running.
// @Tags         thresholds
// @Accept       json
// @Produce      json
// @Param        body  body      ThresholdRequest  true  "Threshold"
// @Success      200   {object}  service.UpsertResult
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/station-threshold [post]
func (h *Handler) upsertThreshold(c *gin.Context) {
	var req ThresholdRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	res, err := h.services.UpsertThreshold(c.Request.Context(), service.ThresholdInput{
		Station: req.Station,
		Alarm1:  req.Alarm1,
		Alarm2:  req.Alarm2,
	})
	if err != nil {
		h.respondError(c, err, "station_threshold_upsert_failed", "station", req.Station)
		return
	}
	c.JSON(http.StatusOK, res)
}
