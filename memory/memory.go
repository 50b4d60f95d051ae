// Package memory is the flat 32-bit paged word memory the IR's Store
// and Load operate over. Pages are allocated lazily on first access
// and own both a cell's Value (word + data-taint) and a separate
// address-taint bit used by the memory-taint policy.
//
// Generalized from c64/memory/memory.go's banked Manager (a struct
// owning fixed-size regions behind Read/Write) into a page table
// keyed by page number, following original_source's Memory/MemoryPage
// lazy-allocation model.
package memory

import (
	"fmt"

	"github.com/dcrain/concolic/ir"
)

// DefaultPageSize is the page size in words when none is given to New.
const DefaultPageSize = 4096

// ErrAddressOutOfPage indicates an internal page-index inconsistency —
// a bug in this package, not a condition callers can trigger from the
// outside, since any 32-bit address is externally valid.
var ErrAddressOutOfPage = fmt.Errorf("memory: address out of page bounds")

type page struct {
	base     uint32
	cells    []ir.Value
	addrTaint []bool
}

func newPage(base uint32, size uint32) *page {
	return &page{
		base:      base,
		cells:     make([]ir.Value, size),
		addrTaint: make([]bool, size),
	}
}

func (p *page) offset(addr uint32) (int, error) {
	if addr < p.base || addr-p.base >= uint32(len(p.cells)) {
		return 0, ErrAddressOutOfPage
	}
	return int(addr - p.base), nil
}

// Memory is a flat 32-bit address space divided into fixed-size pages.
type Memory struct {
	pageSize uint32
	pages    map[uint32]*page
}

// New creates a Memory with the given page size in words. A pageSize
// of 0 selects DefaultPageSize.
func New(pageSize uint32) *Memory {
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	return &Memory{
		pageSize: pageSize,
		pages:    make(map[uint32]*page),
	}
}

func (m *Memory) pageNumber(addr uint32) uint32 {
	return addr / m.pageSize
}

// page returns the page containing addr, allocating it on first
// access. The page-containing-addr-is-resident invariant holds after
// this call returns.
func (m *Memory) page(addr uint32) *page {
	n := m.pageNumber(addr)
	p, ok := m.pages[n]
	if !ok {
		p = newPage(n*m.pageSize, m.pageSize)
		m.pages[n] = p
	}
	return p
}

// Get returns the cell's current Value, or Value{} (word 0,
// untainted) if the address was never written.
func (m *Memory) Get(addr uint32) ir.Value {
	p := m.page(addr)
	off, err := p.offset(addr)
	if err != nil {
		// page() guarantees addr falls inside the page it returns;
		// reaching here means the page table itself is corrupt.
		panic(err)
	}
	return p.cells[off]
}

// Set writes value at addr, allocating the containing page if needed.
func (m *Memory) Set(addr uint32, value ir.Value) {
	p := m.page(addr)
	off, err := p.offset(addr)
	if err != nil {
		panic(err)
	}
	p.cells[off] = value
}

// GetTaint returns the address-taint bit of the cell at addr.
func (m *Memory) GetTaint(addr uint32) bool {
	p := m.page(addr)
	off, err := p.offset(addr)
	if err != nil {
		panic(err)
	}
	return p.addrTaint[off]
}

// SetTaint sets the address-taint bit of the cell at addr.
func (m *Memory) SetTaint(addr uint32, tainted bool) {
	p := m.page(addr)
	off, err := p.offset(addr)
	if err != nil {
		panic(err)
	}
	p.addrTaint[off] = tainted
}

// PageCount returns the number of resident pages.
func (m *Memory) PageCount() int {
	return len(m.pages)
}

// PageSize returns the configured page size in words.
func (m *Memory) PageSize() uint32 {
	return m.pageSize
}

// Clone returns an independent copy of m: same page size, same
// resident pages, with their cell and taint contents duplicated. Used
// by vmcontext.Context.DeepCopy so that a speculative branch can
// mutate memory without affecting the context it was cloned from.
func (m *Memory) Clone() *Memory {
	clone := New(m.pageSize)
	for n, p := range m.pages {
		cp := newPage(p.base, uint32(len(p.cells)))
		copy(cp.cells, p.cells)
		copy(cp.addrTaint, p.addrTaint)
		clone.pages[n] = cp
	}
	return clone
}
