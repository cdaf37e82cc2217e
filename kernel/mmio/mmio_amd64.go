// Package mmio provides load and store primitives for memory that is shared
// with a device. The accesses are implemented in assembly so the compiler can
// neither elide, merge nor reorder them, and each one is a single aligned
// 16-bit move so a device never observes a torn value.
package mmio

// LoadUint16 reads the 16-bit value at addr.
func LoadUint16(addr *uint16) uint16

// StoreUint16 writes val to the 16-bit location at addr.
func StoreUint16(addr *uint16, val uint16)
