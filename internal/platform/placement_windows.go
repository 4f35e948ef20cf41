//go:build windows

package platform

import (
	"syscall"
	"unsafe"

	"focusclock/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
)

const (
	gwlExStyle     int32 = -20
	wsExToolWindow       = 0x00000080
	wsExAppWindow        = 0x00040000
	swpNoSize            = 0x0001
	swpNoMove            = 0x0002
	swpNoActivate        = 0x0010
	spiGetWorkArea       = 0x0030
)

// HWND_TOPMOST is (HWND)-1.
const hwndTopmost = ^uintptr(0)

var (
	user32DLL                 = syscall.NewLazyDLL("user32.dll")
	procGetWindowLongPtrW     = user32DLL.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW     = user32DLL.NewProc("SetWindowLongPtrW")
	procSetWindowPos          = user32DLL.NewProc("SetWindowPos")
	procSystemParametersInfoW = user32DLL.NewProc("SystemParametersInfoW")
)

type nativeRect struct {
	left   int32
	top    int32
	right  int32
	bottom int32
}

type win32Placement struct{}

func newPlacement() Placement {
	return win32Placement{}
}

func (win32Placement) Pin(window fyne.Window) {
	withHWND(window, func(hwnd uintptr) {
		style, _, _ := procGetWindowLongPtrW.Call(hwnd, int32ToUintptr(gwlExStyle))
		style = (style | wsExToolWindow) &^ wsExAppWindow
		procSetWindowLongPtrW.Call(hwnd, int32ToUintptr(gwlExStyle), style)
		procSetWindowPos.Call(hwnd, hwndTopmost, 0, 0, 0, 0, swpNoMove|swpNoSize|swpNoActivate)
	})
}

func (win32Placement) MoveTo(window fyne.Window, position model.WindowPosition) {
	withHWND(window, func(hwnd uintptr) {
		procSetWindowPos.Call(
			hwnd,
			hwndTopmost,
			int32ToUintptr(int32(position.X)),
			int32ToUintptr(int32(position.Y)),
			0,
			0,
			swpNoSize|swpNoActivate,
		)
	})
}

func (win32Placement) Movable() bool { return true }

func (win32Placement) WorkArea() (model.Rect, bool) {
	var area nativeRect
	result, _, _ := procSystemParametersInfoW.Call(spiGetWorkArea, 0, uintptr(unsafe.Pointer(&area)), 0)
	if result == 0 {
		return model.Rect{}, false
	}
	return model.Rect{
		X:      int(area.left),
		Y:      int(area.top),
		Width:  int(area.right - area.left),
		Height: int(area.bottom - area.top),
	}, true
}

func withHWND(window fyne.Window, apply func(hwnd uintptr)) {
	nativeWindow, ok := window.(driver.NativeWindow)
	if !ok {
		return
	}

	nativeWindow.RunNative(func(context any) {
		var hwnd uintptr
		switch value := context.(type) {
		case driver.WindowsWindowContext:
			hwnd = value.HWND
		case *driver.WindowsWindowContext:
			hwnd = value.HWND
		default:
			return
		}
		if hwnd == 0 {
			return
		}
		apply(hwnd)
	})
}

func int32ToUintptr(value int32) uintptr {
	return uintptr(uint32(value))
}
