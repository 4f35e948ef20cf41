package model

// WindowPosition is a screen coordinate of a window's top-left corner.
type WindowPosition struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// DefaultWindowPosition is used when no position was ever persisted.
func DefaultWindowPosition() WindowPosition {
	return WindowPosition{X: 100, Y: 100}
}

// Offset returns the position moved by dx, dy.
func (position WindowPosition) Offset(dx, dy int) WindowPosition {
	return WindowPosition{X: position.X + dx, Y: position.Y + dy}
}

// Rect is a screen rectangle.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}
