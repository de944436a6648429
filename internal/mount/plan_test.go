// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mount

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlan_DigestDeterministic(t *testing.T) {
	p := NewPlan()
	p.SetHome(Params{Device: "/dev/sda1", FSType: "ext4", Flags: []string{"rw"}})
	p.AddAuxiliary("/mnt/data", Params{Device: "/dev/sda2", FSType: "ext4", Flags: []string{"rw", "noatime"}})

	d1 := p.Digest()
	d2 := p.Digest()
	require.Equal(t, d1, d2)
	require.Len(t, d1, 128)
}

func TestPlan_DigestChangesWithContent(t *testing.T) {
	p1 := NewPlan()
	p1.SetHome(Params{Device: "/dev/sda1", FSType: "ext4"})

	p2 := NewPlan()
	p2.SetHome(Params{Device: "/dev/sda2", FSType: "ext4"})

	require.NotEqual(t, p1.Digest(), p2.Digest())
}

func TestPlan_DigestDependsOnAuxiliaryInsertionOrder(t *testing.T) {
	p1 := NewPlan()
	p1.SetHome(Params{Device: "/dev/sda1", FSType: "ext4"})
	p1.AddAuxiliary("/mnt/a", Params{Device: "/dev/a"})
	p1.AddAuxiliary("/mnt/b", Params{Device: "/dev/b"})

	p2 := NewPlan()
	p2.SetHome(Params{Device: "/dev/sda1", FSType: "ext4"})
	p2.AddAuxiliary("/mnt/a", Params{Device: "/dev/a"})
	p2.AddAuxiliary("/mnt/b", Params{Device: "/dev/b"})

	require.Equal(t, p1.Digest(), p2.Digest())

	// Different insertion order produces a different digest: order is
	// part of the serialised representation per spec.md §4.4.
	p3 := NewPlan()
	p3.SetHome(Params{Device: "/dev/sda1", FSType: "ext4"})
	p3.AddAuxiliary("/mnt/b", Params{Device: "/dev/b"})
	p3.AddAuxiliary("/mnt/a", Params{Device: "/dev/a"})

	require.NotEqual(t, p1.Digest(), p3.Digest())
}

func TestPlan_AddAuxiliary_ReplaceKeepsPosition(t *testing.T) {
	p := NewPlan()
	p.AddAuxiliary("/mnt/a", Params{Device: "/dev/a"})
	p.AddAuxiliary("/mnt/b", Params{Device: "/dev/b"})
	p.AddAuxiliary("/mnt/a", Params{Device: "/dev/a2"})

	var targets []string
	p.ForEach(func(target string, _ Params) {
		targets = append(targets, target)
	})

	require.Equal(t, []string{"/mnt/a", "/mnt/b"}, targets)
	require.Equal(t, 2, p.Len())
}

func TestPlan_WithHomeAndWithAuxiliaryDoNotMutateReceiver(t *testing.T) {
	p := NewPlan()
	p.SetHome(Params{Device: "/dev/sda1"})
	p.AddAuxiliary("/mnt/a", Params{Device: "/dev/a"})

	before := p.Digest()

	cp := p.WithHome(Params{Device: "/dev/sda2"}).WithAuxiliary("/mnt/c", Params{Device: "/dev/c"})

	require.Equal(t, before, p.Digest())
	require.NotEqual(t, before, cp.Digest())
	require.Equal(t, 1, p.Len())
	require.Equal(t, 2, cp.Len())
}
