// CLAUDE:SUMMARY HTTP surface for the engine: open/activate/deactivate/pause/resume plus status and last-selection reads.
package selection

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a chi router exposing the engine over HTTP. Mount it
// under a prefix of the host's choosing:
//
//	r.Mount("/selection", engine.Routes())
func (e *Engine) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/open", e.handleOpen)
	r.Post("/activate", e.handleActivate)
	r.Post("/deactivate", e.handleDeactivate)
	r.Post("/pause", e.handlePause)
	r.Post("/resume", e.handleResume)
	r.Get("/status", e.handleStatus)
	r.Get("/last", e.handleLast)

	return r
}

func (e *Engine) handleOpen(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 32*1024)

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		jsonErr(w, "url is required", http.StatusBadRequest)
		return
	}

	if err := e.Open(r.Context(), req.URL); err != nil {
		e.logger.Error("selection: open failed", "url", req.URL, "error", err)
		jsonErr(w, "open failed", http.StatusBadGateway)
		return
	}
	e.writeStatus(w)
}

func (e *Engine) handleActivate(w http.ResponseWriter, _ *http.Request) {
	if err := e.Activate(); err != nil {
		jsonErr(w, err.Error(), http.StatusConflict)
		return
	}
	e.writeStatus(w)
}

func (e *Engine) handleDeactivate(w http.ResponseWriter, _ *http.Request) {
	if err := e.Deactivate(); err != nil {
		jsonErr(w, err.Error(), http.StatusConflict)
		return
	}
	e.writeStatus(w)
}

func (e *Engine) handlePause(w http.ResponseWriter, _ *http.Request) {
	if err := e.Pause(); err != nil {
		jsonErr(w, err.Error(), http.StatusConflict)
		return
	}
	e.writeStatus(w)
}

func (e *Engine) handleResume(w http.ResponseWriter, _ *http.Request) {
	if err := e.Resume(); err != nil {
		jsonErr(w, err.Error(), http.StatusConflict)
		return
	}
	e.writeStatus(w)
}

func (e *Engine) handleStatus(w http.ResponseWriter, _ *http.Request) {
	e.writeStatus(w)
}

func (e *Engine) handleLast(w http.ResponseWriter, _ *http.Request) {
	sel := e.LastSelection()
	if sel == nil {
		jsonErr(w, "no selection yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sel)
}

func (e *Engine) writeStatus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{
		State:   e.State(),
		PageURL: e.PageURL(),
		HasLast: e.LastSelection() != nil,
	})
}

func jsonErr(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
