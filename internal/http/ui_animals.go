package httpx

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/zoohub/zookeeper-hub/internal/data"
	"github.com/zoohub/zookeeper-hub/internal/domain/model"
	"github.com/zoohub/zookeeper-hub/internal/service"
)

// AnimalsUI renders the animal records admin page.
type AnimalsUI struct {
	UIBase
	Svc *service.AnimalService
}

type animalsPageData struct {
	Animals []*model.Animal
	Query   string
	Editing *model.Animal
}

// Page handles GET /animals. An edit query param switches the form into
// edit mode for that record.
func (h *AnimalsUI) Page(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, listRender{})
}

// Create handles POST /animals.
func (h *AnimalsUI) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: "invalid form submission"})
		return
	}

	age, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("age")))
	if err != nil {
		h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: "age must be a number"})
		return
	}

	_, err = h.Svc.Create(r.Context(), &model.CreateAnimalRequest{
		Name:         r.PostFormValue("name"),
		Species:      r.PostFormValue("species"),
		Age:          age,
		Enclosure:    r.PostFormValue("enclosure"),
		HealthStatus: r.PostFormValue("health_status"),
	})
	if err != nil {
		if isValidationError(err) {
			h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: err.Error()})
			return
		}
		h.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, "/animals", http.StatusSeeOther)
}

// Update handles POST /animals/update.
func (h *AnimalsUI) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: "invalid form submission"})
		return
	}

	age, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("age")))
	if err != nil {
		h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: "age must be a number"})
		return
	}

	name := r.PostFormValue("name")
	species := r.PostFormValue("species")
	enclosure := r.PostFormValue("enclosure")
	healthStatus := r.PostFormValue("health_status")

	_, err = h.Svc.Update(r.Context(), r.PostFormValue("id"), model.UpdateAnimalRequest{
		Name:         &name,
		Species:      &species,
		Age:          &age,
		Enclosure:    &enclosure,
		HealthStatus: &healthStatus,
	})
	switch {
	case err == nil:
		http.Redirect(w, r, "/animals", http.StatusSeeOther)
	case errors.Is(err, data.ErrAnimalNotFound):
		h.renderList(w, r, listRender{Code: http.StatusNotFound, Error: "Animal not found."})
	case isValidationError(err):
		h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: err.Error()})
	default:
		h.serverError(w, r, err)
	}
}

// Delete handles POST /animals/delete.
func (h *AnimalsUI) Delete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: "invalid form submission"})
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), r.PostFormValue("id"))
	if err != nil && !errors.Is(err, data.ErrAnimalNotFound) {
		h.serverError(w, r, err)
		return
	}
	if !deleted {
		h.renderList(w, r, listRender{Code: http.StatusNotFound, Error: "Animal not found."})
		return
	}

	http.Redirect(w, r, "/animals", http.StatusSeeOther)
}

// listRender carries error state into a page re-render.
type listRender struct {
	Code  int
	Error string
}

func (h *AnimalsUI) renderList(w http.ResponseWriter, r *http.Request, p listRender) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	limit, offset := ParseLimitOffset(r, 50, 200)

	opts := model.AnimalsListOptions{Limit: limit, Offset: offset, Sort: "name", Dir: "asc"}
	if query != "" {
		opts.Q = &query
	}
	animals, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	var editing *model.Animal
	if editID := strings.TrimSpace(r.URL.Query().Get("edit")); editID != "" {
		editing, err = h.Svc.GetByID(r.Context(), editID)
		if err != nil && !errors.Is(err, data.ErrAnimalNotFound) {
			h.serverError(w, r, err)
			return
		}
	}

	h.render(w, r, "animals", PageData{
		Title: "Animals",
		Error: p.Error,
		Data:  animalsPageData{Animals: animals, Query: query, Editing: editing},
	}, p.Code)
}
