package httpx

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/zoohub/zookeeper-hub/internal/data"
	"github.com/zoohub/zookeeper-hub/internal/domain/model"
	"github.com/zoohub/zookeeper-hub/internal/service"
)

// MedicalUI renders the medical log page for veterinarians.
type MedicalUI struct {
	UIBase
	Svc     *service.MedicalService
	Animals *service.AnimalService
}

type medicalPageData struct {
	Logs        []*model.MedicalLog
	Animals     []*model.Animal
	AnimalNames map[string]string
}

const dateInputLayout = "2006-01-02"

// Page handles GET /medical.
func (h *MedicalUI) Page(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, listRender{})
}

// Create handles POST /medical.
func (h *MedicalUI) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: "invalid form submission"})
		return
	}

	date, err := time.ParseInLocation(dateInputLayout, strings.TrimSpace(r.PostFormValue("date")), time.Local)
	if err != nil {
		h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: "visit date must look like 2026-03-14"})
		return
	}

	session := GetSessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	_, err = h.Svc.Create(r.Context(), &model.CreateMedicalLogRequest{
		AnimalID:         r.PostFormValue("animal_id"),
		Date:             date,
		Diagnosis:        r.PostFormValue("diagnosis"),
		Treatment:        r.PostFormValue("treatment"),
		FollowUpRequired: r.PostFormValue("follow_up_required") == "true",
		Notes:            r.PostFormValue("notes"),
	}, session.UserID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrAnimalNotFound):
			h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: "Unknown animal."})
		case isValidationError(err):
			h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: err.Error()})
		default:
			h.serverError(w, r, err)
		}
		return
	}

	http.Redirect(w, r, "/medical", http.StatusSeeOther)
}

func (h *MedicalUI) renderList(w http.ResponseWriter, r *http.Request, p listRender) {
	ctx := r.Context()
	limit, offset := ParseLimitOffset(r, 50, 200)

	logs, err := h.Svc.List(ctx, model.MedicalLogsListOptions{Limit: limit, Offset: offset})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	animals, err := h.Animals.List(ctx, model.AnimalsListOptions{Limit: 1000, Sort: "name", Dir: "asc"})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	names := make(map[string]string, len(animals))
	for _, a := range animals {
		names[a.ID] = a.Name
	}

	h.render(w, r, "medical", PageData{
		Title: "Medical",
		Error: p.Error,
		Data:  medicalPageData{Logs: logs, Animals: animals, AnimalNames: names},
	}, p.Code)
}
