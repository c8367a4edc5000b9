package device

import "fmt"

// Stats accumulates I/O counters since the last ResetStats call — the
// driver's per-prompt "Time/IOW/IOR/BW/BR" line (original_source's
// iopread/iopwrite/bcread/bcwrite globals, reset right after each prompt's
// line is read and reported just before the next prompt).
type Stats struct {
	ReadOps, WriteOps     int64
	ReadBytes, WriteBytes int64
}

// Session tracks the single currently-open drive and its write-protect
// latch (spec: "drive N ... resets writeprot to true"; "unprot" clears it).
// There is exactly one live Session per running diagnostic.
type Session struct {
	Num       int
	Name      string
	dev       Device
	writeprot bool
	stats     Stats
}

// NewSession returns a Session with no drive open.
func NewSession() *Session { return &Session{Num: -1, writeprot: true} }

// Open closes any previously open drive, opens drive n, and resets the
// write-protect latch (spec §4.1).
func (s *Session) Open(n int) error {
	d, name, err := Open(n)
	if err != nil {
		return err
	}
	if s.dev != nil {
		s.dev.Close()
	}
	s.dev = d
	s.Num = n
	s.Name = name
	s.writeprot = true
	return nil
}

// Device returns the currently open device, or an error if none is open.
func (s *Session) Device() (Device, error) {
	if s.dev == nil {
		return nil, fmt.Errorf("device: no drive open")
	}
	return s.dev, nil
}

// WriteProtected reports whether destructive writes are currently refused.
func (s *Session) WriteProtected() bool { return s.writeprot }

// Unprotect clears the write-protect latch (the "unprot" command).
func (s *Session) Unprotect() { s.writeprot = false }

// SizeSectors reports the open device's capacity in 512-byte sectors (the
// drvsiz pseudo-variable), or 0 if no drive is open.
func (s *Session) SizeSectors() int64 {
	if s.dev == nil {
		return 0
	}
	n, err := s.dev.SizeBytes()
	if err != nil {
		return 0
	}
	return n / SectorSize
}

// Read reads count sectors into buf through the open device, counting the
// operation and its bytes toward Stats.
func (s *Session) Read(buf []byte, lba, count int64) error {
	dev, err := s.Device()
	if err != nil {
		return err
	}
	if err := dev.Read(buf, lba, count); err != nil {
		return err
	}
	s.stats.ReadOps++
	s.stats.ReadBytes += count * SectorSize
	return nil
}

// Write writes count sectors from buf through the open device, counting
// the operation and its bytes toward Stats.
func (s *Session) Write(buf []byte, lba, count int64) error {
	dev, err := s.Device()
	if err != nil {
		return err
	}
	if err := dev.Write(buf, lba, count); err != nil {
		return err
	}
	s.stats.WriteOps++
	s.stats.WriteBytes += count * SectorSize
	return nil
}

// Stats returns the accumulated I/O counters since the last ResetStats.
func (s *Session) Stats() Stats { return s.stats }

// ResetStats zeroes the accumulated I/O counters, called once per prompt.
func (s *Session) ResetStats() { s.stats = Stats{} }

// Close releases the currently open device, if any.
func (s *Session) Close() error {
	if s.dev == nil {
		return nil
	}
	err := s.dev.Close()
	s.dev = nil
	return err
}
