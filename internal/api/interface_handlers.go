package api

import (
	"encoding/json"
	"net/http"

	"grimm.is/serac/internal/uplink"
)

func (s *Server) handleGetInterfaces(w http.ResponseWriter, r *http.Request) {
	interfaces, err := s.registry.GetInterfaces()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to read interface registry", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, interfaces)
}

func (s *Server) handleUpdateIP(w http.ResponseWriter, r *http.Request) {
	var cfg uplink.IPConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := s.controller.UpdateIPConfig(cfg); err != nil {
		WriteError(w, statusForError(err), err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleGetServices(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.statuses.Status())
}
