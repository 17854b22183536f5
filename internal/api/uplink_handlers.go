package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pmezard/go-difflib/difflib"

	"grimm.is/serac/internal/uplink"
)

// statusForError maps an uplink error to an HTTP status. Validation and
// registry rejections are the client's fault; persistence and render
// failures are ours.
func statusForError(err error) int {
	switch {
	case errors.Is(err, uplink.ErrInvalidField):
		return http.StatusBadRequest
	case errors.Is(err, uplink.ErrRegistry):
		return http.StatusBadRequest
	case errors.Is(err, uplink.ErrPersistence):
		return http.StatusInternalServerError
	case errors.Is(err, uplink.ErrRender):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleGetWifiUplink(w http.ResponseWriter, r *http.Request) {
	col, err := s.controller.WifiConfig()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, col)
}

func (s *Server) handlePutWifiUplink(w http.ResponseWriter, r *http.Request) {
	var rec uplink.WifiRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := s.controller.UpdateWifiUplink(rec); err != nil {
		s.logger.Warn("wifi uplink update rejected", "iface", rec.Iface, "error", err)
		WriteError(w, statusForError(err), err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleGetPppUplink(w http.ResponseWriter, r *http.Request) {
	col, err := s.controller.PPPConfig()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, col)
}

func (s *Server) handlePutPppUplink(w http.ResponseWriter, r *http.Request) {
	var rec uplink.PPPRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := s.controller.UpdatePppUplink(rec); err != nil {
		s.logger.Warn("ppp uplink update rejected", "iface", rec.Iface, "error", err)
		WriteError(w, statusForError(err), err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// PreviewResponse reports the difference between the daemon config on
// disk and what the persisted collection would generate now.
type PreviewResponse struct {
	Iface    string `json:"iface"`
	InSync   bool   `json:"in_sync"`
	Diff     string `json:"diff,omitempty"`
	Rendered string `json:"rendered"`
}

func (s *Server) handlePreviewWifiUplink(w http.ResponseWriter, r *http.Request) {
	s.handlePreview(w, r, s.controller.PreviewWifi)
}

func (s *Server) handlePreviewPppUplink(w http.ResponseWriter, r *http.Request) {
	s.handlePreview(w, r, s.controller.PreviewPPP)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request, preview func(string) ([]byte, []byte, error)) {
	iface := r.URL.Query().Get("iface")
	if iface == "" {
		WriteError(w, http.StatusBadRequest, "iface query parameter is required")
		return
	}

	onDisk, rendered, err := preview(iface)
	if err != nil {
		WriteError(w, statusForError(err), err.Error())
		return
	}

	resp := PreviewResponse{
		Iface:    iface,
		InSync:   string(onDisk) == string(rendered),
		Rendered: string(rendered),
	}
	if !resp.InSync {
		diff, diffErr := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(onDisk)),
			B:        difflib.SplitLines(string(rendered)),
			FromFile: "on-disk",
			ToFile:   "rendered",
			Context:  3,
		})
		if diffErr == nil {
			resp.Diff = diff
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}
