package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"apptrack/internal/config"
	"apptrack/internal/database"
	"apptrack/internal/models"
	"apptrack/internal/reporter"
	"apptrack/pkg/utils"
)

type Handler struct {
	config   *config.Config
	repo     *database.Repository
	reporter *reporter.Reporter
}

func NewHandler(cfg *config.Config, repo *database.Repository) *Handler {
	return &Handler{
		config:   cfg,
		repo:     repo,
		reporter: reporter.New(cfg, repo),
	}
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/segments", h.handleSegments)
	mux.HandleFunc("/api/segments/latest", h.handleLatestSegment)
	mux.HandleFunc("/api/report", h.handleReport)
	mux.HandleFunc("/api/status", h.handleStatus)

	mux.HandleFunc("/health", h.handleHealth)

	mux.HandleFunc("/", h.handleIndex)
}

// handleSegments returns raw segments, newest-day-first bounded by ?period
// (day, week, month) or the last 24h with an optional ?limit.
func (h *Handler) handleSegments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	periodType := query.Get("period")

	var segments []*models.ActivitySegment
	var err error

	if periodType != "" {
		period, perr := reportPeriod(periodType)
		if perr != nil {
			http.Error(w, perr.Error(), http.StatusBadRequest)
			return
		}
		segments, err = h.repo.GetSegmentsSince(period.Start)
	} else {
		segments, err = h.repo.GetSegmentsSince(time.Now().Add(-24 * time.Hour))
	}

	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch segments: %v", err), http.StatusInternalServerError)
		return
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && len(segments) > limit {
			segments = segments[len(segments)-limit:]
		}
	}

	writeJSON(w, map[string]interface{}{
		"segments": segments,
		"count":    len(segments),
	})
}

func (h *Handler) handleLatestSegment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	segment, err := h.repo.GetLatest()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch latest segment: %v", err), http.StatusInternalServerError)
		return
	}

	if segment == nil {
		http.Error(w, "No segments recorded yet", http.StatusNotFound)
		return
	}

	writeJSON(w, segment)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	periodType := r.URL.Query().Get("period")
	if periodType == "" {
		periodType = "day"
	}

	report, err := h.reporter.GenerateReport(periodType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, report)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := map[string]interface{}{
		"poll_interval_seconds":  h.config.GetPollIntervalSeconds(),
		"idle_threshold_seconds": h.config.GetIdleThresholdSeconds(),
		"report_dir":             h.config.Report.Dir,
		"time":                   time.Now().Format(time.RFC3339),
	}

	if latest, err := h.repo.GetLatest(); err == nil && latest != nil {
		status["latest_segment"] = map[string]interface{}{
			"application": latest.Application,
			"title":       latest.Title,
			"ended":       latest.EndTime.Format(time.RFC3339),
			"duration":    utils.FormatRoundedUnit(latest.DurationSeconds),
		}
	}

	writeJSON(w, status)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, map[string]interface{}{
		"name": "apptrack",
		"endpoints": []string{
			"/api/segments",
			"/api/segments/latest",
			"/api/report",
			"/api/status",
			"/health",
		},
	})
}

// reportPeriod mirrors the reporter's period math for raw-segment queries.
func reportPeriod(periodType string) (*models.ReportPeriod, error) {
	now := time.Now()
	var start time.Time

	switch periodType {
	case "day", "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(weekday - 1))
	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return nil, fmt.Errorf("invalid period type: %s (valid: day, week, month)", periodType)
	}

	return &models.ReportPeriod{Start: start, End: now, Type: periodType}, nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
