package httpx

import (
	"net/http"

	"github.com/zoohub/zookeeper-hub/internal/domain/model"
	"github.com/zoohub/zookeeper-hub/internal/service"
)

// DashboardUI renders the operations overview for admins and researchers.
type DashboardUI struct {
	UIBase
	Animals *service.AnimalService
	Feeding *service.FeedingService
	Medical *service.MedicalService
}

type dashboardPageData struct {
	AnimalCount    int
	RecentFeedings []*model.FeedingLog
	RecentMedical  []*model.MedicalLog
}

const dashboardRecentLimit = 10

// Page handles GET /dashboard.
func (h *DashboardUI) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	animals, err := h.Animals.List(ctx, model.AnimalsListOptions{Limit: 1000})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	feedings, err := h.Feeding.List(ctx, model.FeedingLogsListOptions{Limit: dashboardRecentLimit})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	medical, err := h.Medical.List(ctx, model.MedicalLogsListOptions{Limit: dashboardRecentLimit})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, "dashboard", PageData{
		Title: "Dashboard",
		Data: dashboardPageData{
			AnimalCount:    len(animals),
			RecentFeedings: feedings,
			RecentMedical:  medical,
		},
	}, 0)
}
