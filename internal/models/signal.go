package models

// SignalKind names one of the raw environment signals the client batches to
// the ingest endpoint.
type SignalKind string

const (
	SignalVisibility     SignalKind = "visibilitychange"
	SignalBlur           SignalKind = "blur"
	SignalFocus          SignalKind = "focus"
	SignalKeyDown        SignalKind = "keydown"
	SignalPaste          SignalKind = "paste"
	SignalCopy           SignalKind = "copy"
	SignalContextMenu    SignalKind = "contextmenu"
	SignalMouseMove      SignalKind = "mousemove"
	SignalClick          SignalKind = "click"
	SignalResize         SignalKind = "resize"
	SignalWindowPosition SignalKind = "windowposition"
	SignalFullscreen     SignalKind = "fullscreenchange"
)

// SignalEvent is one raw observation from the browser environment. Fields are
// sparse; only those relevant to the kind are populated.
type SignalEvent struct {
	Kind       SignalKind `json:"kind"`
	Timestamp  float64    `json:"timestamp"` // ms since epoch, client clock
	QuestionID string     `json:"questionId,omitempty"`

	// keydown
	Key string `json:"key,omitempty"`

	// visibilitychange / fullscreenchange
	Hidden     bool `json:"hidden,omitempty"`
	Fullscreen bool `json:"fullscreen,omitempty"`

	// mousemove / click
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// resize (devtools heuristic inputs)
	InnerWidth  int `json:"innerWidth,omitempty"`
	InnerHeight int `json:"innerHeight,omitempty"`
	OuterWidth  int `json:"outerWidth,omitempty"`
	OuterHeight int `json:"outerHeight,omitempty"`

	// windowposition
	ScreenX int `json:"screenX,omitempty"`
	ScreenY int `json:"screenY,omitempty"`
}
