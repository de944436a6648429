// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package mount implements the mount plan model (spec.md §4.4, component
// C4) and the executor that turns a plan into live mounts (spec.md §4.8,
// component C8). The two live in one package because the original system
// couples them tightly: a Plan exists only to be digested (for C5
// authorisation lookups) or executed (by an Executor), and nothing else
// in this module needs them kept apart.
package mount

import (
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// separator is written between fields absorbed into the plan digest. Its
// value is arbitrary but must stay fixed across releases of this package,
// since a digest is compared against ones computed by past and future
// versions of the same algorithm.
const separator = 0x1F

// Params describes one mount: its device, filesystem type (empty means
// "let the kernel probe"), and a list of mount flags.
type Params struct {
	Device string
	FSType string
	Flags  []string
}

// Plan is a Mount Plan Model: a single home mount plus a set of auxiliary
// mounts keyed by target path, iterated in the order each target was first
// added. Stable iteration order is an invariant — spec.md §4.4 requires
// that a plan loaded from storage digest identically to the plan that was
// stored, which only holds if iteration order is reproducible.
type Plan struct {
	home    Params
	homeSet bool

	mounts map[string]Params
	order  []string
}

// NewPlan returns an empty Plan with no home mount and no auxiliary mounts.
func NewPlan() *Plan {
	return &Plan{mounts: make(map[string]Params)}
}

// Home reports the plan's home mount, if one has been set.
func (p *Plan) Home() (Params, bool) {
	return p.home, p.homeSet
}

// SetHome sets the plan's home mount in place.
func (p *Plan) SetHome(params Params) {
	p.home = params
	p.homeSet = true
}

// WithHome returns a copy of the plan with its home mount set to params,
// leaving the receiver unmodified.
func (p *Plan) WithHome(params Params) *Plan {
	cp := p.clone()
	cp.SetHome(params)
	return cp
}

// AddAuxiliary adds or replaces the auxiliary mount keyed by target, in
// place. A new target is appended to the iteration order; replacing an
// existing target keeps its original position.
func (p *Plan) AddAuxiliary(target string, params Params) {
	if _, exists := p.mounts[target]; !exists {
		p.order = append(p.order, target)
	}
	p.mounts[target] = params
}

// WithAuxiliary returns a copy of the plan with target added or replaced,
// leaving the receiver unmodified. Useful for previewing a plan's digest
// before committing to a mutation.
func (p *Plan) WithAuxiliary(target string, params Params) *Plan {
	cp := p.clone()
	cp.AddAuxiliary(target, params)
	return cp
}

// ForEach calls fn once per auxiliary mount, in stable iteration order.
func (p *Plan) ForEach(fn func(target string, params Params)) {
	for _, target := range p.order {
		fn(target, p.mounts[target])
	}
}

// Len returns the number of auxiliary mounts in the plan.
func (p *Plan) Len() int {
	return len(p.order)
}

func (p *Plan) clone() *Plan {
	cp := &Plan{
		home:    p.home,
		homeSet: p.homeSet,
		mounts:  make(map[string]Params, len(p.mounts)),
		order:   append([]string(nil), p.order...),
	}
	for k, v := range p.mounts {
		cp.mounts[k] = Params{Device: v.Device, FSType: v.FSType, Flags: append([]string(nil), v.Flags...)}
	}
	return cp
}

// Digest computes the plan's content-addressable digest (spec.md §4.4): a
// SHA-512 absorption of the home mount fields, then each auxiliary mount
// in iteration order with its loop index and field separators, rendered as
// fixed-width uppercase hex.
func (p *Plan) Digest() string {
	h := sha512.New()

	fmt.Fprint(h, p.home.Device, p.home.FSType, strings.Join(p.home.Flags, ""))

	for i, target := range p.order {
		params := p.mounts[target]

		writeCounter(h, uint32(i))
		h.Write([]byte{separator})
		h.Write([]byte(target))
		h.Write([]byte{separator})
		h.Write([]byte(params.Device))
		h.Write([]byte{separator})
		h.Write([]byte(params.FSType))
		h.Write([]byte{separator})

		for j, flag := range params.Flags {
			writeCounter(h, uint32(j))
			h.Write([]byte(flag))
		}
	}

	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}

func writeCounter(h interface{ Write([]byte) (int, error) }, n uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], n)
	h.Write(buf[:])
}
