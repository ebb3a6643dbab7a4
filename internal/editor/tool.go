package editor

import (
	"fmt"
	"strings"

	"github.com/example/retouch/internal/crop"
)

// Tool is the active editing tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolCrop
	ToolDraw
	ToolErase
	ToolShape
	ToolText
	ToolEyedropper
)

var toolNames = [...]string{"select", "crop", "draw", "erase", "shape", "text", "eyedropper"}

func (t Tool) String() string {
	if t < ToolSelect || t > ToolEyedropper {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolSelect, ToolCrop, ToolDraw, ToolErase, ToolShape, ToolText, ToolEyedropper}

// ParseTool maps a tool name to its value.
func ParseTool(s string) (Tool, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for i, n := range toolNames {
		if n == v {
			return Tool(i), nil
		}
	}
	switch v {
	case "move", "pan":
		return ToolSelect, nil
	case "brush", "pen":
		return ToolDraw, nil
	case "eraser":
		return ToolErase, nil
	case "picker", "pick":
		return ToolEyedropper, nil
	}
	return ToolSelect, fmt.Errorf("unknown tool %q", s)
}

// PointerKind is the phase of a pointer event.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerLeave
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerLeave:
		return "leave"
	}
	return fmt.Sprintf("PointerKind(%d)", int(k))
}

// Button identifies the pointer button of a down event.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// PointerEvent is a pointer event in screen coordinates.
type PointerEvent struct {
	Kind   PointerKind
	X, Y   float64
	Button Button
}

// gesture is the transient state of one pointer-down to pointer-up sequence.
// The tool is latched at pointer-down.
type gesture struct {
	active bool
	tool   Tool

	lastX, lastY     float64
	anchorX, anchorY float64
	curX, curY       float64
	dirty            bool
	preview          bool

	drag       crop.Drag
	dragging   bool
	panStartX  float64
	panStartY  float64
	panOriginX int
	panOriginY int
}
