// Package mem implements paged, growable memory addressed by integer
// offset. It backs the in-memory block-device simulator (internal/device)
// used by any platform lacking a native back end.
//
// Adapted from the teacher's memcore.go / internal/mem: that memory held
// FORTH dictionary cells ([]int); discdiag's simulated disc holds raw
// sector bytes, so PagedCore (the page-table bookkeeping, unchanged) now
// backs a Bytes type instead of Ints.
package mem

// DefaultBytesPageSize provides a default for Bytes.PageSize, sized to one
// disc sector.
const DefaultBytesPageSize = 512

// Bytes implements byte-oriented paged memory. Pages may not necessarily be
// the same size, but usually are in practice.
type Bytes struct {
	PagedCore
	pages [][]byte
}

// Size returns an address one position higher than the last position in the
// last page allocated so far.
func (m *Bytes) Size() uint {
	if i := len(m.bases) - 1; i >= 0 {
		return m.bases[i] + uint(len(m.pages[i]))
	}
	return 0
}

// LoadInto reads len(buf) bytes from memory starting at addr.
// Unallocated pages read back as zero. Returns an error if Limit would
// be exceeded; no partial load is done.
func (m *Bytes) LoadInto(addr uint, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}

	end := addr + uint(len(buf))
	if err := m.checkLimit(end, "load"); err != nil {
		return err
	}

	for pageID := m.findPage(addr); addr < end && pageID < len(m.bases); pageID++ {
		base := m.bases[pageID]
		if base > end {
			break
		}

		if skip := int(base) - int(addr); skip > 0 {
			if skip >= len(buf) {
				break
			}
			addr += uint(skip)
			for i := range buf[:skip] {
				buf[i] = 0
			}
			buf = buf[skip:]
		}

		page := m.pages[pageID]
		if skip := int(addr) - int(base); skip > 0 {
			if skip >= len(page) {
				continue
			}
			base += uint(skip)
			page = page[skip:]
		}

		n := copy(buf, page)
		buf = buf[n:]
		addr += uint(n)
	}

	for i := range buf {
		buf[i] = 0
	}

	return nil
}

// Stor stores values at addr, allocating pages if necessary.
// Returns an error if Limit would be exceeded; no partial store is done.
func (m *Bytes) Stor(addr uint, values []byte) error {
	if len(values) == 0 {
		return nil
	}

	end := addr + uint(len(values))
	if err := m.checkLimit(end, "stor"); err != nil {
		return err
	}

	if m.PageSize == 0 {
		m.PageSize = DefaultBytesPageSize
	}

	for pageID := m.findPage(addr); addr < end; pageID++ {
		base, size, page := m.allocPage(pageID, addr)
		if skip := addr - base; skip > 0 {
			if skip >= size {
				continue
			}
			base += skip
			page = page[skip:]
		}
		n := copy(page, values)
		values = values[n:]
		addr += uint(n)
	}

	return nil
}

func (m *Bytes) allocPage(pageID int, addr uint) (base, size uint, page []byte) {
	base, size, isNew := m.PagedCore.allocPage(pageID, addr)
	if isNew {
		page = make([]byte, size)
		if pageID == len(m.bases) {
			m.pages = append(m.pages, page)
		} else {
			m.pages = append(m.pages, nil)
			copy(m.pages[pageID+1:], m.pages[pageID:])
			m.pages[pageID] = page
		}
	} else {
		page = m.pages[pageID]
	}
	return base, size, page
}
