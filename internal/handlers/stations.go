package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

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

// @Summary      Live station status
// @Description  Classifies the newest unannotated row. statusClass is bg-success, bg-warning or bg-danger.
// @Tags         stations
// @Produce      json
// @Param        station  path      string  true  "Station"
// @Success      200      {object}  models.StationStatus
// @Failure      404      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /api/station-status/{station} [get]
func (h *Handler) getStationStatus(c *gin.Context) {
	station := c.Param("station")
	st, err := h.services.Status(c.Request.Context(), station)
	if err != nil {
		h.respondError(c, err, "station_status_failed", "station", station)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Board
// @Description  Latest polled card per monitored station.
// @Tags         stations
// @Produce      json
// @Success      200  {array}  models.BoardCard
// @Router       /api/board [get]
func (h *Handler) getBoard(c *gin.Context) {
	c.JSON(http.StatusOK, h.boardCards())
}
