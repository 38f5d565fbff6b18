package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/aspect"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/audio"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/config"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/hotkey"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/i18n"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/selection"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/wizard"
)

// PermissionReporter reports the granted state of the system permissions
// the application depends on
type PermissionReporter interface {
	CheckAllPermissions() map[string]bool
}

// Handler manages API endpoints for the settings frontend
type Handler struct {
	config          *config.Config
	wizard          *wizard.SetupWizard
	controller      *selection.Controller
	gate            *aspect.Gate
	permissions     PermissionReporter
	translator      *i18n.Translator
	onHotkeyChanged func() error // Callback to reload the hotkey in the main app
}

// New creates a new API handler
func New(cfg *config.Config, wiz *wizard.SetupWizard, controller *selection.Controller,
	gate *aspect.Gate, permissions PermissionReporter, translator *i18n.Translator,
	onHotkeyChanged func() error) *Handler {
	return &Handler{
		config:          cfg,
		wizard:          wiz,
		controller:      controller,
		gate:            gate,
		permissions:     permissions,
		translator:      translator,
		onHotkeyChanged: onHotkeyChanged,
	}
}

// RegisterRoutes registers all API routes on the given mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/settings", h.handleSettings)
	mux.HandleFunc("/api/hotkey/validate", h.handleHotkeyValidate)
	mux.HandleFunc("/api/hotkey/register", h.handleHotkeyRegister)
	mux.HandleFunc("/api/devices", h.handleDevices)
	mux.HandleFunc("/api/devices/select", h.handleDeviceSelect)
	mux.HandleFunc("/api/volume", h.handleVolume)
	mux.HandleFunc("/api/aspect", h.handleAspect)
	mux.HandleFunc("/api/permissions", h.handlePermissions)
	mux.HandleFunc("/api/setup", h.handleSetup)
	mux.HandleFunc("/api/translations", h.handleTranslations)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// parseDirection reads and validates the direction query parameter
func parseDirection(r *http.Request) (audio.Direction, error) {
	dir := audio.Direction(r.URL.Query().Get("direction"))
	if !dir.Valid() {
		return "", fmt.Errorf("direction must be %q or %q", audio.Input, audio.Output)
	}
	return dir, nil
}

// handleSettings handles GET and PUT /api/settings
func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getSettings(w, r)
	case http.MethodPut:
		h.putSettings(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// getSettings returns the current configuration
func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.config.Clone())
}

// putSettings updates the configuration
func (h *Handler) putSettings(w http.ResponseWriter, r *http.Request) {
	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.config.Update(updates); err != nil {
		http.Error(w, fmt.Sprintf("Failed to update config: %v", err), http.StatusBadRequest)
		return
	}

	if err := h.config.Save(config.GetConfigPath()); err != nil {
		http.Error(w, fmt.Sprintf("Failed to save config: %v", err), http.StatusInternalServerError)
		return
	}

	// Saving settings once counts as finishing first-run setup
	if h.wizard != nil {
		if err := h.wizard.MarkSetupCompleted(); err != nil {
			fmt.Printf("Warning: Failed to mark setup completed: %v\n", err)
		}
	}

	// A ratio change through the bulk save still has to resize the window
	if h.gate != nil && aspectUpdated(updates) {
		if err := h.applyConfiguredRatio(); err != nil {
			fmt.Printf("Warning: Failed to apply aspect ratio: %v\n", err)
		}
	}

	writeJSON(w, map[string]string{"status": "success"})
}

// aspectUpdated reports whether the update touches the preferred ratio
func aspectUpdated(updates map[string]interface{}) bool {
	for _, key := range []string{"aspect_ratio", "use_custom_ratio", "custom_ratio_width", "custom_ratio_height"} {
		if _, ok := updates[key]; ok {
			return true
		}
	}
	return false
}

// applyConfiguredRatio routes the configured ratio through the gate so the
// persisted preference and the resize signal stay on one path
func (h *Handler) applyConfiguredRatio() error {
	cfg := h.config.Clone()

	if cfg.UseCustomRatio {
		ratio, err := aspect.Custom(cfg.CustomRatioWidth, cfg.CustomRatioHeight)
		if err != nil {
			return err
		}
		return h.gate.Set(ratio, true)
	}

	ratio, known := aspect.ParsePreset(cfg.AspectRatio)
	if !known {
		return fmt.Errorf("unknown aspect ratio %q", cfg.AspectRatio)
	}
	return h.gate.Set(ratio, false)
}

// handleHotkeyValidate handles POST /api/hotkey/validate
func (h *Handler) handleHotkeyValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request config.HotkeyConfig
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	chord, err := hotkey.FromSettings(request.Ctrl, request.Shift, request.Alt, request.Cmd, request.Key)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid hotkey: %v", err), http.StatusBadRequest)
		return
	}

	conflicts := hotkey.CheckConflicts(chord.Modifiers, chord.Key)

	conflictNames := []string{}
	for _, c := range conflicts {
		conflictNames = append(conflictNames, c.Name)
	}

	writeJSON(w, map[string]interface{}{
		"conflicts": conflictNames,
		"display":   hotkey.FormatHotkey(chord.Modifiers, chord.Key),
	})
}

// handleHotkeyRegister handles POST /api/hotkey/register
func (h *Handler) handleHotkeyRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request config.HotkeyConfig
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Reject chords that could not be registered before persisting them
	if _, err := hotkey.FromSettings(request.Ctrl, request.Shift, request.Alt, request.Cmd, request.Key); err != nil {
		http.Error(w, fmt.Sprintf("Invalid hotkey: %v", err), http.StatusBadRequest)
		return
	}

	h.config.SetHotkey(request)

	if err := h.config.Save(config.GetConfigPath()); err != nil {
		http.Error(w, fmt.Sprintf("Failed to save config: %v", err), http.StatusInternalServerError)
		return
	}

	// Reload the hotkey in the running application
	if h.onHotkeyChanged != nil {
		if err := h.onHotkeyChanged(); err != nil {
			// The config is already saved, so report partial success
			writeJSON(w, map[string]string{
				"status":  "partial",
				"message": fmt.Sprintf("Hotkey saved but reload failed: %v. Please restart the application.", err),
			})
			return
		}
	}

	writeJSON(w, map[string]string{
		"status":  "success",
		"message": "Hotkey registered and applied successfully",
	})
}

// handleDevices handles GET /api/devices?direction=input|output
func (h *Handler) handleDevices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	dir, err := parseDirection(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	devices, err := h.controller.ListDevices(dir)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list audio devices: %v", err), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"devices": devices,
	}
	if id, ok := h.controller.Selection(dir); ok {
		response["selected_id"] = id
	}

	writeJSON(w, response)
}

// handleDeviceSelect handles POST /api/devices/select
func (h *Handler) handleDeviceSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Direction audio.Direction `json:"direction"`
		DeviceID  int             `json:"device_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !request.Direction.Valid() {
		http.Error(w, "Invalid direction", http.StatusBadRequest)
		return
	}

	if err := h.controller.SelectDevice(request.Direction, request.DeviceID); err != nil {
		http.Error(w, fmt.Sprintf("Failed to select device: %v", err), http.StatusInternalServerError)
		return
	}

	// An unknown device ID is a controller no-op; report it as such instead
	// of persisting an ID that was never applied
	if id, ok := h.controller.Selection(request.Direction); !ok || id != request.DeviceID {
		http.Error(w, fmt.Sprintf("Device %d is not in the current %s enumeration",
			request.DeviceID, request.Direction), http.StatusNotFound)
		return
	}

	h.config.SetSelection(string(request.Direction), request.DeviceID)
	if err := h.config.Save(config.GetConfigPath()); err != nil {
		fmt.Printf("Warning: Failed to persist device selection: %v\n", err)
	}

	writeJSON(w, map[string]string{"status": "success"})
}

// handleVolume handles GET and POST /api/volume
func (h *Handler) handleVolume(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		dir, err := parseDirection(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]interface{}{
			"direction":  dir,
			"level":      h.controller.Volume(dir),
			"percentage": h.controller.VolumePercentage(dir),
		})

	case http.MethodPost:
		var request struct {
			Direction audio.Direction `json:"direction"`
			Level     float64         `json:"level"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if !request.Direction.Valid() {
			http.Error(w, "Invalid direction", http.StatusBadRequest)
			return
		}

		// The stored level is authoritative even when the system apply
		// fails, so the response reports it either way
		applyErr := h.controller.SetVolume(request.Direction, request.Level)

		h.config.SetVolume(string(request.Direction), h.controller.Volume(request.Direction))
		if err := h.config.Save(config.GetConfigPath()); err != nil {
			fmt.Printf("Warning: Failed to persist volume: %v\n", err)
		}

		response := map[string]interface{}{
			"direction":  request.Direction,
			"level":      h.controller.Volume(request.Direction),
			"percentage": h.controller.VolumePercentage(request.Direction),
		}
		if applyErr != nil {
			response["warning"] = fmt.Sprintf("volume stored but not applied: %v", applyErr)
		}
		writeJSON(w, response)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAspect handles GET and POST /api/aspect
func (h *Handler) handleAspect(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg := h.config.Clone()
		writeJSON(w, map[string]interface{}{
			"current":    cfg.AspectRatio,
			"use_custom": cfg.UseCustomRatio,
			"presets":    aspect.Presets,
		})

	case http.MethodPost:
		var request struct {
			Name   string  `json:"name"`
			Width  float64 `json:"width"`
			Height float64 `json:"height"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		var (
			ratio     aspect.Ratio
			useCustom bool
		)
		if request.Name != "" {
			preset, known := aspect.ParsePreset(request.Name)
			if !known {
				http.Error(w, fmt.Sprintf("Unknown aspect ratio %q", request.Name), http.StatusBadRequest)
				return
			}
			ratio = preset
		} else {
			custom, err := aspect.Custom(request.Width, request.Height)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			ratio = custom
			useCustom = true
		}

		if err := h.gate.Set(ratio, useCustom); err != nil {
			http.Error(w, fmt.Sprintf("Failed to apply aspect ratio: %v", err), http.StatusInternalServerError)
			return
		}

		writeJSON(w, map[string]interface{}{
			"status": "success",
			"ratio":  ratio,
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handlePermissions handles GET /api/permissions
func (h *Handler) handlePermissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	granted := map[string]bool{}
	if h.permissions != nil {
		granted = h.permissions.CheckAllPermissions()
	}

	response := make(map[string]map[string]bool, len(granted))
	for name, ok := range granted {
		response[name] = map[string]bool{"granted": ok}
	}

	writeJSON(w, response)
}

// handleSetup handles GET /api/setup, reporting first-run setup progress
func (h *Handler) handleSetup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.wizard == nil {
		http.Error(w, "Setup wizard not available", http.StatusNotFound)
		return
	}

	granted := false
	if h.permissions != nil {
		granted = true
		for _, ok := range h.permissions.CheckAllPermissions() {
			if !ok {
				granted = false
				break
			}
		}
	}

	writeJSON(w, map[string]interface{}{
		"completed": h.wizard.IsSetupCompleted(),
		"progress":  h.wizard.Progress(h.config, granted),
	})
}

// handleTranslations handles GET /api/translations
func (h *Handler) handleTranslations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.translator == nil {
		writeJSON(w, map[string]string{})
		return
	}

	writeJSON(w, h.translator.All())
}
