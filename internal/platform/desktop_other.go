//go:build !windows

package platform

import "github.com/eliteGoblin/focusd/winsnap/internal/domain"

func newDesktop() (domain.Desktop, error) {
	return nil, ErrUnsupported
}
