package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joacominatel/perruls/internal/app"
	"github.com/joacominatel/perruls/internal/database"
	"github.com/joacominatel/perruls/internal/reports"
)

const petNotFound = "Mascota no encontrada"

type handlers struct {
	querier Querier
	logger  *slog.Logger
}

type dataResponse struct {
	Data []map[string]any `json:"data"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func (h *handlers) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "API Perruls"})
}

// report serves a parameterless report as {"data": [...]}.
func (h *handlers) report(rep reports.Report) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.querier.RunReport(r.Context(), rep)
		if err != nil {
			h.fail(w, rep, err)
			return
		}
		writeJSON(w, http.StatusOK, dataResponse{Data: objects(result)})
	}
}

// petReport serves a report bound to the {chip_id} URL parameter.
func (h *handlers) petReport(rep reports.Report) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.querier.RunReport(r.Context(), rep, chi.URLParam(r, "chip_id"))
		if err != nil {
			h.fail(w, rep, err)
			return
		}
		writeJSON(w, http.StatusOK, dataResponse{Data: objects(result)})
	}
}

func (h *handlers) pet(w http.ResponseWriter, r *http.Request) {
	result, err := h.querier.RunReport(r.Context(), reports.PetByChip, chi.URLParam(r, "chip_id"))
	if err != nil {
		h.fail(w, reports.PetByChip, err)
		return
	}
	rows := objects(result)
	if len(rows) == 0 {
		writeJSON(w, http.StatusNotFound, detailResponse{Detail: petNotFound})
		return
	}
	writeJSON(w, http.StatusOK, rows[0])
}

func (h *handlers) foodInventory(w http.ResponseWriter, r *http.Request) {
	critical := false
	if raw := r.URL.Query().Get("critico"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, detailResponse{Detail: "critico must be a boolean"})
			return
		}
		critical = v
	}
	h.report(reports.FoodInventory(critical))(w, r)
}

func (h *handlers) fail(w http.ResponseWriter, rep reports.Report, err error) {
	h.logger.Error("report failed", slog.String("report", rep.Key), slog.Any("error", err))

	msg := err.Error()
	var qe *app.ErrQuery
	if errors.As(err, &qe) {
		msg = qe.Message()
	}
	writeJSON(w, http.StatusInternalServerError, detailResponse{Detail: msg})
}

// objects turns a result into one map per row keyed by column name.
func objects(result *database.QueryResult) []map[string]any {
	if result.Empty() {
		return []map[string]any{}
	}
	out := make([]map[string]any, 0, len(result.Rows))
	for _, row := range result.Rows {
		obj := make(map[string]any, len(result.Columns))
		for i, col := range result.Columns {
			if i < len(row) {
				obj[col] = jsonValue(row[i])
			}
		}
		out = append(out, obj)
	}
	return out
}

// jsonValue renders dates without a time part as YYYY-MM-DD.
func jsonValue(v any) any {
	t, ok := v.(time.Time)
	if !ok {
		return v
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
