package device

import (
	"fmt"

	"github.com/samiam95124/diskdiagnostic/internal/mem"
)

// DefaultSimSectors is the simulator's default capacity (spec §6: "an
// in-memory simulator of 32 sectors for tests").
const DefaultSimSectors = 32

// Sim is an in-memory block device, the third back end named in spec §6.
// Its backing store is paged (internal/mem), one page per sector, so that
// growing the simulated disc at runtime (e.g. a test exercising a larger
// -bufsecs) never requires a bulk reallocation.
type Sim struct {
	sectors int64
	store   mem.Bytes
}

// NewSim returns a Sim with the given capacity in sectors. A zero or
// negative count uses DefaultSimSectors.
func NewSim(sectors int64) *Sim {
	if sectors <= 0 {
		sectors = DefaultSimSectors
	}
	s := &Sim{sectors: sectors}
	s.store.PageSize = SectorSize
	return s
}

func (s *Sim) bounds(lba, count int64) error {
	if lba < 0 || count < 0 || lba+count > s.sectors {
		return fmt.Errorf("device: lba range [%d,%d) out of bounds (0,%d)", lba, lba+count, s.sectors)
	}
	return nil
}

// Read implements Device.
func (s *Sim) Read(buf []byte, lba, count int64) error {
	if err := s.bounds(lba, count); err != nil {
		return err
	}
	n := count * SectorSize
	if int64(len(buf)) < n {
		return fmt.Errorf("device: buffer too small for %d sectors", count)
	}
	return s.store.LoadInto(uint(lba*SectorSize), buf[:n])
}

// Write implements Device.
func (s *Sim) Write(buf []byte, lba, count int64) error {
	if err := s.bounds(lba, count); err != nil {
		return err
	}
	n := count * SectorSize
	if int64(len(buf)) < n {
		return fmt.Errorf("device: buffer too small for %d sectors", count)
	}
	return s.store.Stor(uint(lba*SectorSize), buf[:n])
}

// SizeBytes implements Device.
func (s *Sim) SizeBytes() (int64, error) {
	return s.sectors * SectorSize, nil
}

// Close implements Device.
func (s *Sim) Close() error { return nil }
