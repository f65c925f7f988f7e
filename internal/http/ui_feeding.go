package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/zoohub/zookeeper-hub/internal/domain/model"
	"github.com/zoohub/zookeeper-hub/internal/service"
)

// FeedingUI renders the feeding log page for zookeepers.
type FeedingUI struct {
	UIBase
	Svc *service.FeedingService
}

type feedingPageData struct {
	Logs         []*model.FeedingLog
	AnimalFilter string
}

// datetime-local inputs submit without a zone; feedings are recorded in
// server-local time.
const datetimeLocalLayout = "2006-01-02T15:04"

// Page handles GET /feeding.
func (h *FeedingUI) Page(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, listRender{})
}

// Create handles POST /feeding.
func (h *FeedingUI) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: "invalid form submission"})
		return
	}

	var feedingTime time.Time
	if raw := strings.TrimSpace(r.PostFormValue("feeding_time")); raw != "" {
		parsed, err := time.ParseInLocation(datetimeLocalLayout, raw, time.Local)
		if err != nil {
			h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: "feeding time must look like 2026-03-14T09:30"})
			return
		}
		feedingTime = parsed
	}

	session := GetSessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	_, err := h.Svc.Create(r.Context(), &model.CreateFeedingLogRequest{
		AnimalName:  r.PostFormValue("animal_name"),
		FoodType:    r.PostFormValue("food_type"),
		Quantity:    r.PostFormValue("quantity"),
		Notes:       r.PostFormValue("notes"),
		FeedingTime: feedingTime,
	}, session.UserID)
	if err != nil {
		if isValidationError(err) {
			h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: err.Error()})
			return
		}
		h.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, "/feeding", http.StatusSeeOther)
}

func (h *FeedingUI) renderList(w http.ResponseWriter, r *http.Request, p listRender) {
	filter := strings.TrimSpace(r.URL.Query().Get("animal"))
	limit, offset := ParseLimitOffset(r, 50, 200)

	opts := model.FeedingLogsListOptions{Limit: limit, Offset: offset}
	if filter != "" {
		opts.AnimalName = &filter
	}
	logs, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, "feeding", PageData{
		Title: "Feeding",
		Error: p.Error,
		Data:  feedingPageData{Logs: logs, AnimalFilter: filter},
	}, p.Code)
}
