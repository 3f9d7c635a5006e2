package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"station_monitor/internal/service"
)

const errConfirmReset = "reset requires confirm=true"

// StartTimerRequest starts or resumes a station timer. Alarm values are
// minutes as typed; omitted values fall back to today's threshold.
type StartTimerRequest struct {
	Resume bool    `json:"resume" example:"false"`
	Alarm1 *string `json:"alarm_1,omitempty" example:"5"`
	Alarm2 *string `json:"alarm_2,omitempty" example:"3"`
}

// ResetTimerRequest must confirm the reset explicitly.
type ResetTimerRequest struct {
	Confirm bool `json:"confirm" example:"true"`
}

// @Summary      Station timer
// @Tags         timers
// @Produce      json
// @Param        station       path    string  true   "Station"
// @Param        X-Session-ID  header  string  false  "Operator session"
// @Success      200  {object}  models.TimerSnapshot
// @Router       /api/station-timer/{station} [get]
func (h *Handler) getTimer(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.TimerSnapshot(sessionID(c), c.Param("station")))
}

// @Summary      Start station timer
// @Description  409 when already running and resume is false; reset first.
// @Tags         timers
// @Accept       json
// @Produce      json
// @Param        station       path    string             true   "Station"
// @Param        X-Session-ID  header  string             false  "Operator session"
// @Param        body          body    StartTimerRequest  false  "Start options"
// @Success      200  {object}  models.TimerSnapshot
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /api/station-timer/{station}/start [post]
func (h *Handler) startTimer(c *gin.Context) {
	var req StartTimerRequest
	if c.Request.ContentLength != 0 {
		if ok := h.bindJSONOrBadRequest(c, &req); !ok {
			return
		}
	}
	operator, _ := operatorName(c)
	station := c.Param("station")

	snap, err := h.services.StartTimer(c.Request.Context(), service.StartTimerParams{
		Session:  sessionID(c),
		Station:  station,
		Resume:   req.Resume,
		Alarm1:   req.Alarm1,
		Alarm2:   req.Alarm2,
		Operator: operator,
	})
	if errors.Is(err, service.ErrAlreadyRunning) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "timer": snap})
		return
	}
	if err != nil {
		h.respondError(c, err, "station_timer_start_failed", "station", station)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Reset station timer
// @Description  Stops ticking and clears counters, fired flags and persisted state.
// @Tags         timers
// @Accept       json
// @Produce      json
// @Param        station       path    string             true   "Station"
// @Param        X-Session-ID  header  string             false  "Operator session"
// @Param        body          body    ResetTimerRequest  true   "Confirmation"
// @Success      200  {object}  models.TimerSnapshot
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/station-timer/{station}/reset [post]
func (h *Handler) resetTimer(c *gin.Context) {
	var req ResetTimerRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if !req.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": errConfirmReset})
		return
	}
	station := c.Param("station")
	snap, err := h.services.ResetTimer(c.Request.Context(), sessionID(c), station)
	if err != nil {
		h.respondError(c, err, "station_timer_reset_failed", "station", station)
		return
	}
	c.JSON(http.StatusOK, snap)
}
