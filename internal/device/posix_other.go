//go:build !linux && !windows

package device

import "fmt"

// On platforms with no native back end wired up yet, every numbered drive
// resolves to an in-memory simulator, the same role stubio.c documents:
// "helps when porting to a new platform."
func platformName(n int) string { return fmt.Sprintf("Sim%d", n) }

func platformOpen(n int) (Device, string, error) {
	return NewSim(DefaultSimSectors), platformName(n), nil
}
