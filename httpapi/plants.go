package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/florafolio/florafolio"
	"github.com/florafolio/florafolio/catalog"
)

// PlantAPI exposes the plant catalog: public browsing and search, plus
// admin-only writes.
type PlantAPI struct {
	service *catalog.Service
}

func NewPlantAPI(service *catalog.Service) *PlantAPI {
	return &PlantAPI{service: service}
}

// register mounts the catalog routes. The search routes must precede the
// {id} route so "search" is not parsed as a plant id.
func (p *PlantAPI) register(r *mux.Router, s *Server) {
	r.HandleFunc("/plants", p.handleList).Methods(http.MethodGet)
	r.HandleFunc("/plants/search/popular", p.handleSearchPopular).Methods(http.MethodGet)
	r.HandleFunc("/plants/search/scientific", p.handleSearchScientific).Methods(http.MethodGet)
	r.HandleFunc("/plants/search", p.handleSearch).Methods(http.MethodGet)
	r.HandleFunc("/plants/{id}", p.handleGet).Methods(http.MethodGet)

	r.HandleFunc("/admin/plants", s.adminOnly(p.handleCreate)).Methods(http.MethodPost)
	r.HandleFunc("/admin/plants/{id}", s.adminOnly(p.handleUpdate)).Methods(http.MethodPut)
	r.HandleFunc("/admin/plants/{id}", s.adminOnly(p.handleDelete)).Methods(http.MethodDelete)
}

func (p *PlantAPI) handleList(w http.ResponseWriter, r *http.Request) {
	plants, err := p.service.GetAll(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plantList(plants))
}

func (p *PlantAPI) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed plant id")
		return
	}
	plant, err := p.service.GetByID(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plant)
}

func (p *PlantAPI) handleSearchPopular(w http.ResponseWriter, r *http.Request) {
	p.search(w, r, r.URL.Query().Get("name"), p.service.SearchPopular)
}

func (p *PlantAPI) handleSearchScientific(w http.ResponseWriter, r *http.Request) {
	p.search(w, r, r.URL.Query().Get("name"), p.service.SearchScientific)
}

func (p *PlantAPI) handleSearch(w http.ResponseWriter, r *http.Request) {
	p.search(w, r, r.URL.Query().Get("term"), p.service.Search)
}

func (p *PlantAPI) search(w http.ResponseWriter, r *http.Request, term string,
	find func(context.Context, string) ([]catalog.Plant, error)) {
	if term == "" {
		writeError(w, http.StatusBadRequest, "search term is required")
		return
	}
	plants, err := find(r.Context(), term)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plantList(plants))
}

func (p *PlantAPI) handleCreate(w http.ResponseWriter, r *http.Request, _ *florafolio.AuthResult) {
	var plant catalog.Plant
	if err := json.NewDecoder(r.Body).Decode(&plant); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	created, err := p.service.Create(r.Context(), plant)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (p *PlantAPI) handleUpdate(w http.ResponseWriter, r *http.Request, _ *florafolio.AuthResult) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed plant id")
		return
	}
	var update catalog.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	updated, err := p.service.Update(r.Context(), id, update)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (p *PlantAPI) handleDelete(w http.ResponseWriter, r *http.Request, _ *florafolio.AuthResult) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed plant id")
		return
	}
	if err := p.service.Delete(r.Context(), id); err != nil {
		writeEngineError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "plant deleted")
}
