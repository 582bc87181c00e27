//go:build windows

package platform

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procEnumWindows              = user32.NewProc("EnumWindows")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procGetWindowTextLengthW     = user32.NewProc("GetWindowTextLengthW")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetWindowPlacement       = user32.NewProc("GetWindowPlacement")
	procSetWindowPlacement       = user32.NewProc("SetWindowPlacement")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
)

type point32 struct {
	X, Y int32
}

type rect32 struct {
	Left, Top, Right, Bottom int32
}

// windowPlacement is the Win32 WINDOWPLACEMENT layout.
type windowPlacement struct {
	Length           uint32
	Flags            uint32
	ShowCmd          uint32
	PtMinPosition    point32
	PtMaxPosition    point32
	RcNormalPosition rect32
}

// enumState collects handles for the single shared EnumWindows callback.
// windows.NewCallback slots are a finite resource, so the callback is created once.
var (
	enumMu      sync.Mutex
	enumHandles []uintptr
	enumProc    = windows.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		enumHandles = append(enumHandles, hwnd)
		return 1 // continue enumeration
	})
)

type win32Desktop struct{}

func newDesktop() (domain.Desktop, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("load user32: %w", err)
	}
	return &win32Desktop{}, nil
}

func (d *win32Desktop) VisibleWindows() ([]domain.NativeWindow, error) {
	enumMu.Lock()
	enumHandles = enumHandles[:0]
	r, _, err := procEnumWindows.Call(enumProc, 0)
	handles := append([]uintptr(nil), enumHandles...)
	enumMu.Unlock()
	if r == 0 {
		return nil, fmt.Errorf("EnumWindows: %w", err)
	}

	out := make([]domain.NativeWindow, 0, len(handles))
	for _, h := range handles {
		if visible, _, _ := procIsWindowVisible.Call(h); visible == 0 {
			continue
		}
		out = append(out, domain.NativeWindow{
			Handle: domain.WindowHandle(h),
			Title:  windowText(h),
		})
	}
	return out, nil
}

func windowText(h uintptr) string {
	n, _, _ := procGetWindowTextLengthW.Call(h)
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	procGetWindowTextW.Call(h, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf)
}

func (d *win32Desktop) WindowPID(h domain.WindowHandle) (int, error) {
	var pid uint32
	tid, _, err := procGetWindowThreadProcessId.Call(uintptr(h), uintptr(unsafe.Pointer(&pid)))
	if tid == 0 {
		return 0, fmt.Errorf("GetWindowThreadProcessId: %w", err)
	}
	return int(pid), nil
}

func (d *win32Desktop) Placement(h domain.WindowHandle) (domain.WindowPlacement, error) {
	wp := windowPlacement{Length: uint32(unsafe.Sizeof(windowPlacement{}))}
	r, _, err := procGetWindowPlacement.Call(uintptr(h), uintptr(unsafe.Pointer(&wp)))
	if r == 0 {
		return domain.WindowPlacement{}, fmt.Errorf("GetWindowPlacement: %w", err)
	}
	return domain.WindowPlacement{
		Flags:       wp.Flags,
		ShowState:   domain.ShowState(wp.ShowCmd),
		MinPosition: domain.Point{X: int(wp.PtMinPosition.X), Y: int(wp.PtMinPosition.Y)},
		MaxPosition: domain.Point{X: int(wp.PtMaxPosition.X), Y: int(wp.PtMaxPosition.Y)},
		NormalPosition: domain.Rect{
			Left:   int(wp.RcNormalPosition.Left),
			Top:    int(wp.RcNormalPosition.Top),
			Right:  int(wp.RcNormalPosition.Right),
			Bottom: int(wp.RcNormalPosition.Bottom),
		},
	}, nil
}

func (d *win32Desktop) Bounds(h domain.WindowHandle) (domain.Rect, error) {
	var rc rect32
	r, _, err := procGetWindowRect.Call(uintptr(h), uintptr(unsafe.Pointer(&rc)))
	if r == 0 {
		return domain.Rect{}, fmt.Errorf("GetWindowRect: %w", err)
	}
	return domain.Rect{Left: int(rc.Left), Top: int(rc.Top), Right: int(rc.Right), Bottom: int(rc.Bottom)}, nil
}

func (d *win32Desktop) SetPlacement(h domain.WindowHandle, p domain.WindowPlacement) error {
	wp := windowPlacement{
		Length:        uint32(unsafe.Sizeof(windowPlacement{})),
		Flags:         p.Flags,
		ShowCmd:       uint32(p.ShowState),
		PtMinPosition: point32{X: int32(p.MinPosition.X), Y: int32(p.MinPosition.Y)},
		PtMaxPosition: point32{X: int32(p.MaxPosition.X), Y: int32(p.MaxPosition.Y)},
		RcNormalPosition: rect32{
			Left:   int32(p.NormalPosition.Left),
			Top:    int32(p.NormalPosition.Top),
			Right:  int32(p.NormalPosition.Right),
			Bottom: int32(p.NormalPosition.Bottom),
		},
	}
	r, _, err := procSetWindowPlacement.Call(uintptr(h), uintptr(unsafe.Pointer(&wp)))
	if r == 0 {
		return fmt.Errorf("SetWindowPlacement: %w", err)
	}
	return nil
}

var _ domain.Desktop = (*win32Desktop)(nil)
