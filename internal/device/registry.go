package device

import "fmt"

// MaxDrives bounds the numbered physical drives this registry knows how to
// name/open, matching original_source's 10-entry phystr[] table.
const MaxDrives = 10

// Open opens logical drive n on whatever native back end this platform
// provides (platformOpen is implemented per-platform in posix_linux.go /
// posix_windows.go / posix_other.go), returning the device and its
// user-facing name.
func Open(n int) (Device, string, error) {
	if n < 0 || n >= MaxDrives {
		return nil, "", ErrNoSuchDrive
	}
	return platformOpen(n)
}

// Test probes drive n without retaining an open handle.
func Test(n int) error {
	d, _, err := Open(n)
	if err != nil {
		return err
	}
	return d.Close()
}

// Name returns the user-facing string for logical drive n, e.g. "/dev/sda"
// or "Drive0", independent of whether it can actually be opened.
func Name(n int) string {
	if n < 0 || n >= MaxDrives {
		return fmt.Sprintf("Drive%d", n)
	}
	return platformName(n)
}
