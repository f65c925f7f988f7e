package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/zoohub/zookeeper-hub/internal/service"
)

// ResearchUI renders the research snapshot page and its query box.
type ResearchUI struct {
	UIBase
	Svc *service.ResearchService
}

type researchPageData struct {
	Snapshot *service.ResearchSnapshot
	Query    string
	Result   string
}

// Page handles GET /research?query=<optional JMESPath expression>.
func (h *ResearchUI) Page(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Svc.Snapshot(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	pageData := researchPageData{Snapshot: snapshot, Query: strings.TrimSpace(r.URL.Query().Get("query"))}
	var pageErr string

	if pageData.Query != "" {
		result, queryErr := h.Svc.Query(r.Context(), pageData.Query)
		switch {
		case queryErr == nil:
			pretty, marshalErr := json.MarshalIndent(result, "", "  ")
			if marshalErr != nil {
				h.serverError(w, r, marshalErr)
				return
			}
			pageData.Result = string(pretty)
		case errors.Is(queryErr, service.ErrEmptyQuery), errors.Is(queryErr, service.ErrBadQuery):
			pageErr = queryErr.Error()
		default:
			h.serverError(w, r, queryErr)
			return
		}
	}

	code := 0
	if pageErr != "" {
		code = http.StatusBadRequest
	}
	h.render(w, r, "research", PageData{
		Title: "Research",
		Error: pageErr,
		Data:  pageData,
	}, code)
}

// ResearchAPIHandlers exposes the snapshot query as JSON for scripted use.
type ResearchAPIHandlers struct {
	Svc *service.ResearchService
}

type researchQueryRequest struct {
	Query string `json:"query"`
}

// Query handles POST /api/research/query.
func (h *ResearchAPIHandlers) Query(w http.ResponseWriter, r *http.Request) {
	var req researchQueryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Query(r.Context(), req.Query)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyQuery):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "empty_query", Err: err})
		case errors.Is(err, service.ErrBadQuery):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "query_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"result": result})
}
