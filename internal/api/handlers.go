package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-runtime/internal/ecs"
)

// deviceDetail is the response shape for a single device.
type deviceDetail struct {
	Address    string   `json:"address"`
	EntityID   string   `json:"entity_id"`
	Components []string `json:"components"`
	Systems    []string `json:"systems"`
}

// handleListDevices returns all registered device addresses.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	addrs, err := s.rt.DeviceAddresses(r.Context())
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"devices": addrs,
		"count":   len(addrs),
	})
}

// handleGetDevice returns one device's entity id and attached slot kinds.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	addr := chi.URLParam(r, "address")
	if addr == "" {
		writeBadRequest(w, "device address is required")
		return
	}

	detail, err := ecs.SubmitDevice(r.Context(), s.rt, addr,
		func(e *ecs.Entity, _ *ecs.Lane) (deviceDetail, error) {
			return deviceDetail{
				Address:    addr,
				EntityID:   e.ID(),
				Components: e.ComponentKinds(),
				Systems:    e.SystemKinds(),
			}, nil
		})
	if err != nil {
		if errors.Is(err, ecs.ErrUnknownDevice) {
			writeNotFound(w, "device not found: "+addr)
			return
		}
		writeInternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// handleGraph returns a snapshot of the entity graph.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.rt.Graph(r.Context())
	if err != nil {
		writeInternalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// handleStats returns gateway and event bus statistics.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"gateway": s.rt.Stats(),
	}
	if s.bus != nil {
		resp["events"] = map[string]any{
			"subscribers": s.bus.SubscriberCount(),
			"dropped":     s.bus.Dropped(),
		}
	}
	if s.hub != nil {
		resp["websocket"] = map[string]any{
			"clients": s.hub.ClientCount(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
