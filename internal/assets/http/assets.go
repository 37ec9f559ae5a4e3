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

// AssetHandler serves the asset endpoints. Reads are open to both roles;
// mutations additionally pass the department scoping middleware.
type AssetHandler struct {
	AssetService *service.AssetService
}

type assetRequest struct {
	Name                    string  `json:"name"`
	Code                    string  `json:"code"`
	Label                   string  `json:"label"`
	InitialValue            float64 `json:"initialValue"`
	ResidualValue           float64 `json:"residualValue"`
	AccumulatedDepreciation float64 `json:"accumulatedDepreciation"`
	DepartmentID            *int64  `json:"departmentId"`
}

type assetResponse struct {
	ID                      int64   `json:"id"`
	Name                    string  `json:"name"`
	Code                    string  `json:"code"`
	Label                   string  `json:"label"`
	InitialValue            float64 `json:"initialValue"`
	ResidualValue           float64 `json:"residualValue"`
	AccumulatedDepreciation float64 `json:"accumulatedDepreciation"`
	DepartmentID            *int64  `json:"departmentId,omitempty"`
}

func toAssetResponse(a domain.Asset) assetResponse {
	return assetResponse{
		ID:                      a.ID,
		Name:                    a.Name,
		Code:                    a.Code,
		Label:                   a.Label,
		InitialValue:            a.InitialValue,
		ResidualValue:           a.ResidualValue,
		AccumulatedDepreciation: a.AccumulatedDepreciation,
		DepartmentID:            a.DepartmentID,
	}
}

func (h *AssetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	assets, err := h.AssetService.List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list assets", slog.Any("error", err))
		httpx.Internal().Write(w)
		return
	}

	out := make([]assetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, toAssetResponse(a))
	}
	writeData(w, http.StatusOK, out)
}

func (h *AssetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		httpx.ValidationError("invalid asset id").Write(w)
		return
	}

	a, err := h.AssetService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrAssetNotFound) {
			httpx.NotFound("asset not found").Write(w)
			return
		}
		httpx.Internal().Write(w)
		return
	}

	writeData(w, http.StatusOK, toAssetResponse(a))
}

func (h *AssetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	var req assetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ValidationError("invalid JSON body").Write(w)
		return
	}

	a, err := h.AssetService.Create(ctx, domain.Asset{
		Name:                    req.Name,
		Code:                    req.Code,
		Label:                   req.Label,
		InitialValue:            req.InitialValue,
		ResidualValue:           req.ResidualValue,
		AccumulatedDepreciation: req.AccumulatedDepreciation,
		DepartmentID:            req.DepartmentID,
	})
	if err != nil {
		writeAssetServiceError(w, l, err)
		return
	}

	writeData(w, http.StatusCreated, toAssetResponse(a))
}

func (h *AssetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	id, err := pathID(r)
	if err != nil {
		httpx.ValidationError("invalid asset id").Write(w)
		return
	}

	var req assetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ValidationError("invalid JSON body").Write(w)
		return
	}

	a, err := h.AssetService.Update(ctx, domain.Asset{
		ID:                      id,
		Name:                    req.Name,
		Code:                    req.Code,
		Label:                   req.Label,
		InitialValue:            req.InitialValue,
		ResidualValue:           req.ResidualValue,
		AccumulatedDepreciation: req.AccumulatedDepreciation,
		DepartmentID:            req.DepartmentID,
	})
	if err != nil {
		writeAssetServiceError(w, l, err)
		return
	}

	writeData(w, http.StatusOK, toAssetResponse(a))
}

func (h *AssetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		httpx.ValidationError("invalid asset id").Write(w)
		return
	}

	if err := h.AssetService.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrAssetNotFound) {
			httpx.NotFound("asset not found").Write(w)
			return
		}
		httpx.Internal().Write(w)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "asset deleted"})
}

func writeAssetServiceError(w http.ResponseWriter, l *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrMissingField):
		httpx.ValidationError("name and code are required").Write(w)
	case errors.Is(err, service.ErrDepartmentNotFound):
		httpx.ValidationError("department does not exist").Write(w)
	case errors.Is(err, service.ErrAssetNotFound):
		httpx.NotFound("asset not found").Write(w)
	default:
		l.Error("asset operation failed", slog.Any("error", err))
		httpx.Internal().Write(w)
	}
}
