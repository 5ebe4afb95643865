package web

import (
	"net/http"
	"strings"

	"github.com/vbonduro/boatlog/internal/domain"
)

type createLogRequest struct {
	Title    string  `json:"title" validate:"required,notblank"`
	Content  string  `json:"content" validate:"required,notblank"`
	Date     string  `json:"date" validate:"required,date"`
	Location *string `json:"location"`
	Weather  *string `json:"weather"`
}

func (createLogRequest) requiredMessage() string {
	return domain.ErrLogFieldsRequired.Error()
}

func (req createLogRequest) toEntry() domain.LogEntry {
	return domain.LogEntry{
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Date:     domain.MustParseDate(req.Date),
		Location: req.Location,
		Weather:  req.Weather,
	}
}

type updateLogRequest struct {
	Title    *string `json:"title" validate:"omitnil,notblank"`
	Content  *string `json:"content" validate:"omitnil,notblank"`
	Date     *string `json:"date" validate:"omitnil,date"`
	Location *string `json:"location"`
	Weather  *string `json:"weather"`
}

func (updateLogRequest) requiredMessage() string {
	return domain.ErrLogFieldsRequired.Error()
}

func (req updateLogRequest) toPatch() domain.LogPatch {
	p := domain.LogPatch{
		Content:  req.Content,
		Date:     parseOptionalDate(req.Date),
		Location: req.Location,
		Weather:  req.Weather,
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		p.Title = &title
	}
	return p
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.logs.ListLogs(r.Context())
	if err != nil {
		s.writeServiceError(w, r, logResource, "fetch", err)
		return
	}
	jsonList(w, logs)
}

func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	var req createLogRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	created, err := s.logs.CreateLog(r.Context(), req.toEntry())
	if err != nil {
		s.writeServiceError(w, r, logResource, "create", err)
		return
	}
	jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleGetLog(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid log ID")
		return
	}

	entry, err := s.logs.GetLog(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, logResource, "fetch", err)
		return
	}
	if entry == nil {
		jsonError(w, http.StatusNotFound, logResource.notFound)
		return
	}
	jsonResponse(w, http.StatusOK, entry)
}

func (s *Server) handleUpdateLog(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid log ID")
		return
	}
	var req updateLogRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := s.logs.UpdateLog(r.Context(), id, req.toPatch())
	if err != nil {
		s.writeServiceError(w, r, logResource, "update", err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid log ID")
		return
	}

	if err := s.logs.DeleteLog(r.Context(), id); err != nil {
		s.writeServiceError(w, r, logResource, "delete", err)
		return
	}
	jsonMessage(w, "Log deleted successfully")
}
