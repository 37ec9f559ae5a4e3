package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
	"github.com/ReyMursuli/assets-api/internal/assets/service"
	"github.com/ReyMursuli/assets-api/pkg/httpx"
	"github.com/ReyMursuli/assets-api/pkg/slogx"
)

// DepartmentHandler serves the admin-only department endpoints.
type DepartmentHandler struct {
	DepartmentService *service.DepartmentService
}

type departmentRequest struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	ResponsibleID *int64 `json:"responsibleId"`
}

type departmentResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	ResponsibleID *int64 `json:"responsibleId,omitempty"`
}

func toDepartmentResponse(d domain.Department) departmentResponse {
	return departmentResponse{
		ID:            d.ID,
		Name:          d.Name,
		Code:          d.Code,
		ResponsibleID: d.ResponsibleID,
	}
}

func (h *DepartmentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	depts, err := h.DepartmentService.List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list departments", slog.Any("error", err))
		httpx.Internal().Write(w)
		return
	}

	out := make([]departmentResponse, 0, len(depts))
	for _, d := range depts {
		out = append(out, toDepartmentResponse(d))
	}
	writeData(w, http.StatusOK, out)
}

func (h *DepartmentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		httpx.ValidationError("invalid department id").Write(w)
		return
	}

	d, err := h.DepartmentService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrDepartmentNotFound) {
			httpx.NotFound("department not found").Write(w)
			return
		}
		httpx.Internal().Write(w)
		return
	}

	writeData(w, http.StatusOK, toDepartmentResponse(d))
}

func (h *DepartmentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	var req departmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ValidationError("invalid JSON body").Write(w)
		return
	}

	d, err := h.DepartmentService.Create(ctx, req.Name, req.Code, req.ResponsibleID)
	if err != nil {
		writeDepartmentServiceError(w, l, err)
		return
	}

	writeData(w, http.StatusCreated, toDepartmentResponse(d))
}

func (h *DepartmentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	id, err := pathID(r)
	if err != nil {
		httpx.ValidationError("invalid department id").Write(w)
		return
	}

	var req departmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ValidationError("invalid JSON body").Write(w)
		return
	}

	d, err := h.DepartmentService.Update(ctx, id, req.Name, req.Code, req.ResponsibleID)
	if err != nil {
		writeDepartmentServiceError(w, l, err)
		return
	}

	writeData(w, http.StatusOK, toDepartmentResponse(d))
}

func (h *DepartmentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		httpx.ValidationError("invalid department id").Write(w)
		return
	}

	if err := h.DepartmentService.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrDepartmentNotFound) {
			httpx.NotFound("department not found").Write(w)
			return
		}
		httpx.Internal().Write(w)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "department deleted"})
}

func writeDepartmentServiceError(w http.ResponseWriter, l *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrMissingField):
		httpx.ValidationError("name and code are required").Write(w)
	case errors.Is(err, service.ErrCodeTaken):
		httpx.ValidationError("department code already registered").Write(w)
	case errors.Is(err, service.ErrUserNotFound):
		httpx.ValidationError("responsible user does not exist").Write(w)
	case errors.Is(err, service.ErrDepartmentNotFound):
		httpx.NotFound("department not found").Write(w)
	default:
		l.Error("department operation failed", slog.Any("error", err))
		httpx.Internal().Write(w)
	}
}
