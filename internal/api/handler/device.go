// Package handler provides HTTP handlers for the WhenPress server.
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/whenpress/whenpress/internal/api/models"
	"github.com/whenpress/whenpress/internal/api/response"
	"github.com/whenpress/whenpress/internal/device"
	"github.com/whenpress/whenpress/internal/presence"
	"github.com/whenpress/whenpress/internal/web"
)

// DeviceHandler handles the public device endpoints.
type DeviceHandler struct {
	service   *device.Service
	threshold time.Duration
	now       func() time.Time
}

// NewDeviceHandler creates a new DeviceHandler. A non-positive threshold
// falls back to the default activity threshold.
func NewDeviceHandler(service *device.Service, threshold time.Duration) *DeviceHandler {
	if threshold <= 0 {
		threshold = presence.DefaultActivityThreshold
	}
	return &DeviceHandler{
		service:   service,
		threshold: threshold,
		now:       time.Now,
	}
}

// Home handles GET / - the homepage.
func (h *DeviceHandler) Home(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := web.RenderHome(&buf); err != nil {
		http.Error(w, "error", http.StatusInternalServerError)
		return
	}
	response.HTML(w, r, http.StatusOK, buf.Bytes())
}

// Page handles GET /{device} - the HTML page for one device. The viewer's
// time zone comes from the tz query parameter, defaulting to UTC.
func (h *DeviceHandler) Page(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "device")

	snap, err := h.service.Snapshot(r.Context(), name)
	if err != nil {
		// The HTML surface keeps the original short text responses.
		if errors.Is(err, device.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "error", http.StatusInternalServerError)
		return
	}

	now := h.now()
	status := presence.Derive(snap, now, h.threshold)
	view := presence.Format(snap, status, now, presence.Zone(r.URL.Query().Get("tz")))

	var buf bytes.Buffer
	if err := web.RenderDevice(&buf, view); err != nil {
		http.Error(w, "error", http.StatusInternalServerError)
		return
	}
	response.HTML(w, r, http.StatusOK, buf.Bytes())
}

// Status handles GET /{device}/status - the presence snapshot as JSON.
func (h *DeviceHandler) Status(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "device")

	snap, err := h.service.Snapshot(r.Context(), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := presence.Derive(snap, h.now(), h.threshold)

	result := models.DeviceStatus{
		Device:  snap.Name,
		Presses: status.PressCount,
		Online:  status.Online,
	}
	if status.HasLastPress {
		ts := status.LastPress.Unix()
		result.LastPress = &ts
	}
	if status.HasLastActive {
		ts := status.LastActive.Unix()
		result.LastActive = &ts
	}
	if snap.HasPing {
		ping := snap.Ping
		result.Ping = &ping
	}
	response.JSON(w, r, http.StatusOK, result)
}

// Ping handles POST /{device}/ping - record a liveness signal.
func (h *DeviceHandler) Ping(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "device")

	var input models.PingRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body")
		return
	}

	if _, err := h.service.RecordPing(r.Context(), name, input.Password); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, models.Ack{Message: "pong"})
}

// Press handles POST /{device}/data - record one press event.
func (h *DeviceHandler) Press(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "device")

	var input models.PressRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body")
		return
	}

	// The registry check runs first, so an absent timestamp is the
	// service's call, not a handler-level rejection.
	if err := h.service.RecordPress(r.Context(), name, input.Password, input.PressTimestamp); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, models.Ack{Message: "ok"})
}

// writeError maps domain errors to problem responses. Details stay generic;
// nothing the device posted is echoed back.
func (h *DeviceHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, device.ErrNotFound):
		response.NotFound(w, r, "device not found")
	case errors.Is(err, device.ErrMalformed):
		response.BadRequest(w, r, "missing or invalid request field")
	case errors.Is(err, device.ErrMisconfigured):
		response.Misconfigured(w, r, "device has no credential provisioned")
	case errors.Is(err, device.ErrUnauthorized):
		response.Unauthorized(w, r, "invalid credentials")
	default:
		response.InternalError(w, r, "store unavailable")
	}
}
