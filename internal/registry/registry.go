// Package registry implements the name-to-handler table: validated name
// registration, a polynomial rolling-hash digest used to address procedures
// on the wire, and lookup by name or by digest.
package registry

import (
	"errors"
	"math/bits"
	"sync"

	"github.com/VestaKK/rpcbridge/internal/payload"
)

// Handler is the function a registered procedure dispatches to. It receives
// the caller's payload and returns a reply payload or an error.
type Handler func(in *payload.Payload) (*payload.Payload, error)

const (
	// hashBase is the polynomial rolling-hash multiplier used by the
	// reference digest function.
	hashBase uint64 = 97

	// hashModulo is UINT64_MAX - 58, the largest prime below 2^64.
	hashModulo uint64 = ^uint64(0) - 58

	// NoMatch is the sentinel digest returned when a lookup has no match.
	// The reference digest space is bounded by hashModulo, which is always
	// less than math.MaxUint64, so this value is never a valid digest.
	NoMatch uint64 = ^uint64(0)

	// MaxNameLen mirrors the reference's UINT16_MAX length ceiling.
	MaxNameLen = 65535
)

// ErrInvalidName is returned when a candidate procedure name fails
// validation: empty, too long, or containing a byte outside [0x20, 0x84].
var ErrInvalidName = errors.New("registry: invalid procedure name")

// ErrAlreadyClosed is returned by operations attempted after Close.
var ErrAlreadyClosed = errors.New("registry: closed")

// ValidName reports whether name is acceptable for registration or lookup.
// A zero-length name is rejected here — the reference implementation's C
// strlen-based loop happens to accept an empty string, but spec behavior
// requires treating it as invalid rather than silently proceeding to a
// FUNC_FIND lookup with an empty key.
func ValidName(name string) bool {
	if len(name) == 0 || len(name) > MaxNameLen {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < 0x20 || c > 0x84 {
			return false
		}
	}
	return true
}

// Digest computes the polynomial rolling hash of name: hash = (hash*base +
// (b - 0x20 + 1)) mod hashModulo, accumulated byte by byte. Each step's
// multiply-then-add can exceed 64 bits before the reduction, so the step is
// carried out as a 128-bit multiply (bits.Mul64) followed by a 128-bit
// divide (bits.Div64) rather than Go's wraparound uint64 arithmetic, which
// would silently truncate instead of reducing mod hashModulo.
func Digest(name string) uint64 {
	var h uint64
	for i := 0; i < len(name); i++ {
		contribution := uint64(name[i]) - 0x20 + 1
		hi, lo := bits.Mul64(h, hashBase)
		lo2, carry := bits.Add64(lo, contribution, 0)
		hi2 := hi + carry
		_, rem := bits.Div64(hi2, lo2, hashModulo)
		h = rem
	}
	return h
}

type entry struct {
	digest  uint64
	name    string
	handler Handler
}

// Registry is a name/digest-addressed table of handlers. Zero value is not
// usable; construct with New. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	closed  bool
}

// New returns an empty, ready-to-use Registry.
func New() *Registry {
	return &Registry{}
}

// Register validates name and installs handler under it, replacing any
// existing handler registered under the same digest (matching the
// reference's insert-or-update behavior). Returns ErrInvalidName if name
// fails validation.
func (r *Registry) Register(name string, handler Handler) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	d := Digest(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrAlreadyClosed
	}
	for i := range r.entries {
		if r.entries[i].digest == d {
			r.entries[i].handler = handler
			r.entries[i].name = name
			return nil
		}
	}
	r.entries = append(r.entries, entry{digest: d, name: name, handler: handler})
	return nil
}

// LookupByName validates name, computes its digest, and returns the
// registered handler and digest. ok is false if name is invalid or
// unregistered.
func (r *Registry) LookupByName(name string) (handler Handler, digest uint64, ok bool) {
	if !ValidName(name) {
		return nil, NoMatch, false
	}
	h, _, found := r.LookupByDigest(Digest(name))
	if !found {
		return nil, NoMatch, false
	}
	return h, Digest(name), true
}

// LookupByDigest returns the handler and registered name for digest, if any.
func (r *Registry) LookupByDigest(digest uint64) (handler Handler, name string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.digest == digest {
			return e.handler, e.name, true
		}
	}
	return nil, "", false
}

// DigestOf returns the digest a given name would hash to, regardless of
// whether it is currently registered.
func (r *Registry) DigestOf(name string) uint64 {
	return Digest(name)
}

// Remove deletes the entry registered under name, if any. The reference's
// delete routine uses pointer/offset arithmetic over its fixed capacity
// array (`capacity - offset`) that can read past populated entries when
// count < capacity; here the shift is just a Go slice append over the live
// entries, which has no such failure mode.
func (r *Registry) Remove(name string) {
	d := Digest(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].digest == d {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Close marks the registry closed; subsequent Register calls fail.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}
