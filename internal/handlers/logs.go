package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"station_monitor/internal/export"
	"station_monitor/internal/models"
	"station_monitor/internal/service"
	"station_monitor/internal/status"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// AppendLogRequest is a station log row posted by a client. seconds is the
// actual value; alarm_1 and alarm_2 are the limits in seconds.
type AppendLogRequest struct {
	Seconds float64  `json:"seconds" example:"181"`
	Alarm1  *float64 `json:"alarm_1" example:"300"`
	Alarm2  *float64 `json:"alarm_2" example:"180"`
	Station string   `json:"station" binding:"required" example:"A1"`
	Status  string   `json:"status" binding:"required" example:"alarm_2"`
	UserLog string   `json:"userlog" example:"สมชาย ใจดี"`
}

// RemarkRequest annotates a log row.
type RemarkRequest struct {
	Detail string `json:"detail" example:"valve replaced"`
}

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// parseRange reads the optional from/to query. A date-only 'to' is the end of that day.
func parseRange(c *gin.Context) (from, to time.Time, msg string) {
	var err error
	if qs := c.Query("from"); qs != "" {
		if from, err = parseQueryTime(qs); err != nil {
			return from, to, errFromInvalid
		}
	}
	if qs := c.Query("to"); qs != "" {
		if to, err = parseQueryTime(qs); err != nil {
			return from, to, errToInvalid
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return from, to, "'from' must be <= 'to'"
	}
	return from, to, ""
}

func filterByRange(entries []models.LogEntry, from, to time.Time) []models.LogEntry {
	if from.IsZero() && to.IsZero() {
		return entries
	}
	out := make([]models.LogEntry, 0, len(entries))
	for _, e := range entries {
		if !from.IsZero() && e.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && e.CreatedAt.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (h *Handler) stationLogs(c *gin.Context) ([]models.LogEntry, bool) {
	from, to, msg := parseRange(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return nil, false
	}
	station := c.Param("station")
	entries, err := h.services.ListByStation(c.Request.Context(), station)
	if err != nil {
		h.respondError(c, err, "station_logs_list_failed", "station", station)
		return nil, false
	}
	return filterByRange(entries, from, to), true
}

// @Summary      List station logs
// @Description  Newest first. Optional from/to filter on created_at (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD').
// @Tags         logs
// @Produce      json
// @Param        station  path      string  true   "Station"
// @Param        from     query     string  false  "Start of range"  example(2026-10-01)
// @Param        to       query     string  false  "End of range. Date-only treated as end of day."  example(2026-10-14)
// @Success      200      {array}   models.HistoryRow
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /api/station/{station} [get]
func (h *Handler) listStationLogs(c *gin.Context) {
	entries, ok := h.stationLogs(c)
	if !ok {
		return
	}
	rows := make([]models.HistoryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, status.History(e))
	}
	c.JSON(http.StatusOK, rows)
}

// @Summary      Export station logs
// @Tags         logs
// @Produce      octet-stream
// @Param        station  path      string  true   "Station"
// @Param        format   query     string  false  "File format"  Enums(csv,xlsx,pdf)
// @Param        from     query     string  false  "Start of range"
// @Param        to       query     string  false  "End of range"
// @Success      200      {file}    file
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /api/station/{station}/export [get]
func (h *Handler) exportStationLogs(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entries, ok := h.stationLogs(c)
	if !ok {
		return
	}
	station := c.Param("station")
	data, err := export.Render(format, station, entries)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to export logs", "station_logs_export_failed", err,
			"station", station, "format", format)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(station, h.now())))
	c.Data(http.StatusOK, format.ContentType(), data)
}

// @Summary      Append station log
// @Description  A valid bearer token's display name replaces userlog.
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        body  body      AppendLogRequest  true  "Log row"
// @Success      200   {object}  map[string]interface{}  "success, data"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/station-log [post]
func (h *Handler) appendStationLog(c *gin.Context) {
	var req AppendLogRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	userLog := req.UserLog
	if name, ok := operatorName(c); ok {
		userLog = name
	}

	entry, err := h.services.AppendLog(c.Request.Context(), service.LogInput{
		Seconds: req.Seconds,
		Alarm1:  req.Alarm1,
		Alarm2:  req.Alarm2,
		Station: req.Station,
		Status:  req.Status,
		UserLog: userLog,
	})
	if err != nil {
		h.respondError(c, err, "station_log_append_failed", "station", req.Station, "status", req.Status)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": entry})
}

// @Summary      Annotate station log
// @Description  Sets remark=1 and the detail. Annotating again overwrites the detail.
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "Log id"
// @Param        body  body      RemarkRequest  true  "Detail"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/station-remark/{id} [post]
func (h *Handler) annotateStationLog(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req RemarkRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if err := h.services.Annotate(c.Request.Context(), id, req.Detail); err != nil {
		h.respondError(c, err, "station_log_annotate_failed", "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2026-10-14T09:30:00Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
