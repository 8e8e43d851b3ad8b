package analytics

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	eventStartup   = "MCP_STARTUP"
	eventToolUsed  = "TOOL_USED"
	eventDetection = "SUBGRAPH_DETECTION"
)

// TrackEvent is a single telemetry payload.
type TrackEvent struct {
	Event      string         `json:"event"`
	Properties map[string]any `json:"properties"`
}

type StartupEventInfo struct {
	Version  string
	ReadOnly bool
}

// DetectionEventInfo carries only counts; node identifiers never leave the process.
type DetectionEventInfo struct {
	Candidates     int
	PairsEvaluated int
	PairsMatched   int
	Skipped        int
}

// Analytics posts events as JSON to a collector endpoint. It is a no-op while disabled
// or when no endpoint is configured.
type Analytics struct {
	enabled    atomic.Bool
	client     HTTPClient
	endpoint   string
	distinctID string
	sessionID  string
}

func NewAnalytics(endpoint string, client HTTPClient) *Analytics {
	a := &Analytics{
		client:     client,
		endpoint:   endpoint,
		distinctID: uuid.NewString(),
		sessionID:  uuid.NewString(),
	}
	a.enabled.Store(endpoint != "")
	return a
}

func (a *Analytics) Disable() {
	slog.Info("telemetry disabled")
	a.enabled.Store(false)
}

func (a *Analytics) Enable() {
	if a.endpoint == "" {
		slog.Warn("telemetry cannot be enabled without an endpoint")
		return
	}
	slog.Info("telemetry enabled")
	a.enabled.Store(true)
}

func (a *Analytics) IsEnabled() bool {
	return a.enabled.Load()
}

func (a *Analytics) EmitEvent(event TrackEvent) {
	if !a.IsEnabled() {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		slog.Debug("failed to marshal telemetry event", "event", event.Event, "error", err)
		return
	}

	resp, err := a.client.Post(a.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Debug("failed to send telemetry event", "event", event.Event, "error", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		slog.Debug("telemetry collector rejected event", "event", event.Event, "status", resp.StatusCode)
	}
}

func (a *Analytics) NewStartupEvent(info StartupEventInfo) TrackEvent {
	props := a.baseProperties()
	props["version"] = info.Version
	props["readonly"] = info.ReadOnly
	props["os"] = runtime.GOOS
	props["arch"] = runtime.GOARCH
	return TrackEvent{Event: eventStartup, Properties: props}
}

func (a *Analytics) NewToolsEvent(toolsUsed string) TrackEvent {
	props := a.baseProperties()
	props["tools_used"] = toolsUsed
	return TrackEvent{Event: eventToolUsed, Properties: props}
}

func (a *Analytics) NewDetectionEvent(info DetectionEventInfo) TrackEvent {
	props := a.baseProperties()
	props["candidates"] = info.Candidates
	props["pairs_evaluated"] = info.PairsEvaluated
	props["pairs_matched"] = info.PairsMatched
	props["skipped"] = info.Skipped
	return TrackEvent{Event: eventDetection, Properties: props}
}

func (a *Analytics) baseProperties() map[string]any {
	return map[string]any{
		"distinct_id": a.distinctID,
		"session_id":  a.sessionID,
		"time":        time.Now().Unix(),
	}
}
