// Package platform provides domain.Desktop backends for the current OS.
package platform

import (
	"fmt"
	"runtime"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// ErrUnsupported is returned on platforms without a desktop backend.
var ErrUnsupported = fmt.Errorf("winsnap is not supported on %s/%s; supported: windows", runtime.GOOS, runtime.GOARCH)

// NewDesktop returns the Desktop for the current OS.
func NewDesktop() (domain.Desktop, error) {
	return newDesktop()
}
