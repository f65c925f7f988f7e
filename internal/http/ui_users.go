package httpx

import (
	"errors"
	"net/http"

	"github.com/zoohub/zookeeper-hub/internal/data"
	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/domain/model"
	"github.com/zoohub/zookeeper-hub/internal/service"
)

// UsersUI renders the staff administration page.
type UsersUI struct {
	UIBase
	Svc *service.UserService
}

type usersPageData struct {
	Users []*model.StaffUser
	Roles []domainauth.Role
}

func assignableRoles() []domainauth.Role {
	return []domainauth.Role{
		domainauth.RoleAdmin,
		domainauth.RoleZookeeper,
		domainauth.RoleVet,
		domainauth.RoleResearcher,
	}
}

// Page handles GET /users.
func (h *UsersUI) Page(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, listRender{})
}

// Create handles POST /users.
func (h *UsersUI) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: "invalid form submission"})
		return
	}

	_, err := h.Svc.Create(r.Context(), &model.CreateStaffUserRequest{
		Email:     r.PostFormValue("email"),
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
		Role:      domainauth.Role(r.PostFormValue("role")),
		Password:  r.PostFormValue("password"),
	})
	if err != nil {
		switch {
		case errors.Is(err, data.ErrEmailExists):
			h.renderList(w, r, listRender{Code: http.StatusConflict, Error: "An account with that email already exists."})
		case errors.Is(err, service.ErrUnknownRole) || isValidationError(err):
			h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: err.Error()})
		default:
			h.serverError(w, r, err)
		}
		return
	}

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// SetRole handles POST /users/role.
func (h *UsersUI) SetRole(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: "invalid form submission"})
		return
	}

	_, err := h.Svc.UpdateRole(r.Context(), r.PostFormValue("id"), r.PostFormValue("role"))
	if err != nil {
		switch {
		case errors.Is(err, data.ErrUserNotFound):
			h.renderList(w, r, listRender{Code: http.StatusNotFound, Error: "Staff account not found."})
		case errors.Is(err, service.ErrUnknownRole):
			h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: err.Error()})
		default:
			h.serverError(w, r, err)
		}
		return
	}

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// Delete handles POST /users/delete.
func (h *UsersUI) Delete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: "invalid form submission"})
		return
	}

	session := GetSessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), r.PostFormValue("id"), session.UserID)
	if err != nil {
		if errors.Is(err, service.ErrSelfDelete) {
			h.renderList(w, r, listRender{Code: http.StatusBadRequest, Error: "You cannot delete your own account."})
			return
		}
		h.serverError(w, r, err)
		return
	}
	if !deleted {
		h.renderList(w, r, listRender{Code: http.StatusNotFound, Error: "Staff account not found."})
		return
	}

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

func (h *UsersUI) renderList(w http.ResponseWriter, r *http.Request, p listRender) {
	limit, offset := ParseLimitOffset(r, 50, 200)
	users, err := h.Svc.List(r.Context(), model.UsersListOptions{Limit: limit, Offset: offset})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, "users", PageData{
		Title: "Staff",
		Error: p.Error,
		Data:  usersPageData{Users: users, Roles: assignableRoles()},
	}, p.Code)
}
