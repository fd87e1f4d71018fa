package output

import (
	"time"

	"github.com/theirongolddev/gantt/internal/grid"
)

// ErrorResponse is the standard JSON error format
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"` // Remediation hint (suggested fix command)
}

// SuccessResponse is a simple success indicator
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Path    string `json:"path,omitempty"`
}

// NewSuccess creates a success response
func NewSuccess(msg string) SuccessResponse {
	return SuccessResponse{Success: true, Message: msg}
}

// TimestampedResponse adds a timestamp to any response
type TimestampedResponse struct {
	GeneratedAt time.Time `json:"generated_at"`
}

// NewTimestamped creates a timestamped response base
func NewTimestamped() TimestampedResponse {
	return TimestampedResponse{GeneratedAt: Timestamp()}
}

// ViewportResponse describes the viewport a command rendered or measured.
type ViewportResponse struct {
	ScrollLeft       float64 `json:"scroll_left"`
	ScrollTop        float64 `json:"scroll_top"`
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
	Zoom             float64 `json:"zoom"`
	DevicePixelRatio float64 `json:"device_pixel_ratio"`
	TotalRows        int     `json:"total_rows"`
	TotalColumns     int     `json:"total_columns"`
	StartDate        string  `json:"start_date"`
}

// RangeResponse is the output format for the range command
type RangeResponse struct {
	TimestampedResponse
	Viewport ViewportResponse  `json:"viewport"`
	Visible  grid.VisibleRange `json:"visible"`
	Buffered grid.VisibleRange `json:"buffered"`
	Ticks    []grid.Tick       `json:"ticks"`
	Months   []grid.MonthGroup `json:"months"`
}

// RenderResponse is the output format for the render command
type RenderResponse struct {
	TimestampedResponse
	Output   string           `json:"output"`
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	Viewport ViewportResponse `json:"viewport"`
	Rows     int              `json:"rows"`
	Columns  int              `json:"columns"`
	Bars     int              `json:"bars"`
	Routes   int              `json:"routes"`
	Skipped  int              `json:"skipped_routes"`
	Millis   float64          `json:"duration_ms"`
}

// GenerateResponse is the output format for the generate command
type GenerateResponse struct {
	TimestampedResponse
	Output string `json:"output"`
	Format string `json:"format"`
	Count  int    `json:"count"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// VersionResponse is the output format for version command
type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuiltAt   string `json:"built_at,omitempty"`
	BuiltBy   string `json:"built_by,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}
