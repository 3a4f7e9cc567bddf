package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dom/plantally/internal/api/middleware"
	"github.com/dom/plantally/internal/domain"
	"github.com/dom/plantally/internal/store"
	"github.com/go-chi/chi/v5"
)

type PlantHandler struct{}

func NewPlantHandler() *PlantHandler {
	return &PlantHandler{}
}

type AddPlantRequest struct {
	Name               string `json:"name"`
	ScientificName     string `json:"scientificName"`
	Location           string `json:"location"`
	LightLevel         string `json:"lightLevel"`
	Image              string `json:"image"`
	WaterFrequencyDays int    `json:"waterFrequencyDays"`
	Humidity           *int   `json:"humidity"`
}

func (h *PlantHandler) List(w http.ResponseWriter, r *http.Request) {
	st, ok := middleware.GetStore(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, st.Views())
}

func (h *PlantHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, ok := middleware.GetStore(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	view, err := st.PlantView(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "PlantHandler.Get", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *PlantHandler) Create(w http.ResponseWriter, r *http.Request) {
	st, ok := middleware.GetStore(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	var req AddPlantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	light, err := domain.ParseLightLevel(req.LightLevel)
	if err != nil {
		writeDomainError(w, "PlantHandler.Create", err)
		return
	}

	plant, err := st.AddPlant(r.Context(), domain.PlantSpec{
		Name:               req.Name,
		ScientificName:     req.ScientificName,
		Location:           req.Location,
		LightLevel:         light,
		Image:              req.Image,
		WaterFrequencyDays: req.WaterFrequencyDays,
		Humidity:           req.Humidity,
	})
	if err != nil {
		writeDomainError(w, "PlantHandler.Create", err)
		return
	}

	h.writeView(w, http.StatusCreated, st, plant)
}

func (h *PlantHandler) Water(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "PlantHandler.Water", func(ctx context.Context, st *store.Store, id string) (*domain.Plant, error) {
		return st.WaterPlant(ctx, id)
	})
}

func (h *PlantHandler) MarkDead(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "PlantHandler.MarkDead", func(ctx context.Context, st *store.Store, id string) (*domain.Plant, error) {
		return st.MarkPlantDead(ctx, id)
	})
}

func (h *PlantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	st, ok := middleware.GetStore(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	if err := st.DeletePlant(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "PlantHandler.Delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PlantHandler) apply(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, *store.Store, string) (*domain.Plant, error)) {
	st, ok := middleware.GetStore(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	plant, err := fn(r.Context(), st, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}

	h.writeView(w, http.StatusOK, st, plant)
}

// writeView answers with the plant's derived display values. If the plant
// vanished between the command and the read, the bare plant is returned.
func (h *PlantHandler) writeView(w http.ResponseWriter, status int, st *store.Store, plant *domain.Plant) {
	view, err := st.PlantView(plant.ID)
	if err != nil {
		writeJSON(w, status, domain.PlantView{Plant: plant})
		return
	}
	writeJSON(w, status, view)
}
