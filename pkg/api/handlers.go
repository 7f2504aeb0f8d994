package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

type routerHandlers struct {
	state StateSource
}

func (h *routerHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, ready := h.state.Latest()
	writeJSON(w, map[string]any{
		"status": "ok",
		"ready":  ready,
	})
}

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.state.Latest()
	if !ok {
		writeError(w, "simulation not started", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("X-Snapshot-Version", strconv.FormatUint(h.state.Version(), 10))
	writeJSON(w, snap)
}

// handleGetSummary 只返回 HUD 相关字段，不含实体列表
func (h *routerHandlers) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.state.Latest()
	if !ok {
		writeError(w, "simulation not started", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]any{
		"version":     h.state.Version(),
		"tick":        snap.Tick,
		"level":       snap.Level,
		"wave":        snap.Wave,
		"maxWaves":    snap.MaxWaves,
		"waveActive":  snap.WaveActive,
		"money":       snap.Money,
		"lives":       snap.Lives,
		"score":       snap.Score,
		"enemies":     len(snap.Enemies),
		"towers":      len(snap.Towers),
		"projectiles": len(snap.Projectiles),
		"gameOver":    snap.GameOver,
		"victory":     snap.Victory,
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
