// Package spatial composes hierarchical spatial state on top of the change bus.
//
// A Manager holds three spaces: local (the object relative to its parent),
// parent (a cached copy of the parent's world state, never a pointer to the
// parent) and world, which is parent combined with local. Incoming change masks
// update local or parent state, and world is recomposed at most once per call.
package spatial

import (
	"cogentcore.org/core/math32"

	"github.com/zeusync/changebus/internal/core/changes"
	"github.com/zeusync/changebus/internal/core/observer"
	"github.com/zeusync/changebus/internal/core/spatial/types"
)

// Manager is not safe for concurrent use; the owning object serializes calls.
type Manager struct {
	local  types.SpatialTransformData
	parent types.SpatialTransformData
	world  types.SpatialTransformData

	worldSpaceNeedsUpdate bool
	updateCount           uint64

	// world flags touched by setters since the last recomposition
	pending changes.BitMask
}

// NewManager returns a manager with identity local state and a neutral parent,
// so world equals local until a parent reports its state.
func NewManager() *Manager {
	m := &Manager{
		local:  types.NewSpatialTransformData(),
		parent: NeutralParent(),
	}
	m.world = m.parent.Add(m.local)
	return m
}

// NeutralParent is the parent state that leaves local state unchanged when
// composed: origin, no rotation, zero scale and an identity matrix.
func NeutralParent() types.SpatialTransformData {
	p := types.NewSpatialTransformData()
	p.Scale = math32.Vector3{}
	return p
}

// ChangeOccurred applies the spatial changes announced by subject. Local flags
// are read as the object's own local state, world flags as the state of its
// parent. The result holds world flags only: the world counterpart of every
// field that changed plus SpatialWorldTransform, or None when nothing changed.
// Fields changed through setters since the last recomposition are included.
func (m *Manager) ChangeOccurred(subject *observer.Subject, changed changes.BitMask) changes.BitMask {
	if changed&changes.Spatial == changes.None {
		return changes.None
	}

	var world changes.BitMask
	world |= m.applyLocal(subject, changed)
	world |= m.applyParent(subject, changed)

	if !m.worldSpaceNeedsUpdate {
		return changes.None
	}
	return world | m.recompose()
}

// applyLocal reads local state, preferring one composite fetch over several
// field fetches, and returns the world flags affected.
func (m *Manager) applyLocal(subject *observer.Subject, changed changes.BitMask) changes.BitMask {
	switch {
	case changed.Has(changes.SpatialAllLocal):
		m.local = subject.GetSpatialTransformData(changes.SpatialAllLocal)
		m.worldSpaceNeedsUpdate = true
		return changes.SpatialAllWorld

	case changed.Has(changes.SpatialAllLocalNoTransform):
		m.local.SpatialData = subject.GetSpatialData(changes.SpatialAllLocalNoTransform)
		m.local.Recompute()
		m.worldSpaceNeedsUpdate = true
		return changes.SpatialAllWorld
	}

	var world changes.BitMask
	fields := false
	if changed.Has(changes.SpatialLocalPosition) {
		m.local.Position = subject.GetVec3(changes.SpatialLocalPosition)
		world |= changes.SpatialWorldPosition
		fields = true
	}
	if changed.Has(changes.SpatialLocalRotation) {
		m.local.RotationEuler = subject.GetVec3(changes.SpatialLocalRotation)
		world |= changes.SpatialWorldRotation
		fields = true
	}
	if changed.Has(changes.SpatialLocalRotationQuat) {
		m.local.RotationQuat = subject.GetQuat(changes.SpatialLocalRotationQuat)
		world |= changes.SpatialWorldRotationQuat
		fields = true
	}
	if changed.Has(changes.SpatialLocalScale) {
		m.local.Scale = subject.GetVec3(changes.SpatialLocalScale)
		world |= changes.SpatialWorldScale
		fields = true
	}
	if fields {
		m.local.Recompute()
		m.worldSpaceNeedsUpdate = true
	}
	if changed.Has(changes.SpatialLocalTransform) {
		m.local.Transform = subject.GetMat4(changes.SpatialLocalTransform)
		world |= changes.SpatialWorldTransform
		m.worldSpaceNeedsUpdate = true
	}
	return world
}

// applyParent mirrors applyLocal for the cached parent state.
func (m *Manager) applyParent(subject *observer.Subject, changed changes.BitMask) changes.BitMask {
	switch {
	case changed.Has(changes.SpatialAllWorld):
		m.parent = subject.GetSpatialTransformData(changes.SpatialAllWorld)
		m.worldSpaceNeedsUpdate = true
		return changes.SpatialAllWorld

	case changed.Has(changes.SpatialAllWorldNoTransform):
		m.parent.SpatialData = subject.GetSpatialData(changes.SpatialAllWorldNoTransform)
		m.parent.Recompute()
		m.worldSpaceNeedsUpdate = true
		return changes.SpatialAllWorld
	}

	var world changes.BitMask
	fields := false
	if changed.Has(changes.SpatialWorldPosition) {
		m.parent.Position = subject.GetVec3(changes.SpatialWorldPosition)
		world |= changes.SpatialWorldPosition
		fields = true
	}
	if changed.Has(changes.SpatialWorldRotation) {
		m.parent.RotationEuler = subject.GetVec3(changes.SpatialWorldRotation)
		world |= changes.SpatialWorldRotation
		fields = true
	}
	if changed.Has(changes.SpatialWorldRotationQuat) {
		m.parent.RotationQuat = subject.GetQuat(changes.SpatialWorldRotationQuat)
		world |= changes.SpatialWorldRotationQuat
		fields = true
	}
	if changed.Has(changes.SpatialWorldScale) {
		m.parent.Scale = subject.GetVec3(changes.SpatialWorldScale)
		world |= changes.SpatialWorldScale
		fields = true
	}
	if fields {
		m.parent.Recompute()
		m.worldSpaceNeedsUpdate = true
	}
	if changed.Has(changes.SpatialWorldTransform) {
		m.parent.Transform = subject.GetMat4(changes.SpatialWorldTransform)
		world |= changes.SpatialWorldTransform
		m.worldSpaceNeedsUpdate = true
	}
	return world
}

// recompose rebuilds world state and returns the world flags it changed.
func (m *Manager) recompose() changes.BitMask {
	m.world = m.parent.Add(m.local)
	m.updateCount++
	m.worldSpaceNeedsUpdate = false

	world := m.pending | changes.SpatialWorldTransform
	m.pending = changes.None
	return world
}

// Update recomposes world state if a setter left it stale. It returns the
// world flags changed since the last recomposition, or None when world state
// was already current.
func (m *Manager) Update() changes.BitMask {
	if !m.worldSpaceNeedsUpdate {
		return changes.None
	}
	return m.recompose()
}

// SetLocalPosition, SetLocalRotation, SetLocalRotationQuat and SetLocalScale
// change one local field and recompute the local transform. World state is
// left stale until the next Update or ChangeOccurred, so several setters
// cost one recomposition.
func (m *Manager) SetLocalPosition(v math32.Vector3) {
	m.local.Position = v
	m.localFieldSet(changes.SpatialWorldPosition)
}

func (m *Manager) SetLocalRotation(euler math32.Vector3) {
	m.local.RotationEuler = euler
	m.localFieldSet(changes.SpatialWorldRotation)
}

func (m *Manager) SetLocalRotationQuat(q math32.Quat) {
	m.local.RotationQuat = q
	m.localFieldSet(changes.SpatialWorldRotationQuat)
}

func (m *Manager) SetLocalScale(v math32.Vector3) {
	m.local.Scale = v
	m.localFieldSet(changes.SpatialWorldScale)
}

// SetLocalSpace replaces the whole local state.
func (m *Manager) SetLocalSpace(s types.SpatialData) {
	m.local.SpatialData = s
	m.localFieldSet(changes.SpatialAllWorld)
}

func (m *Manager) localFieldSet(world changes.BitMask) {
	m.local.Recompute()
	m.worldSpaceNeedsUpdate = true
	m.pending |= world
}

// LocalSpace returns the local state.
func (m *Manager) LocalSpace() types.SpatialTransformData { return m.local }

// ParentSpace returns the cached parent world state.
func (m *Manager) ParentSpace() types.SpatialTransformData { return m.parent }

// WorldSpace returns the composed world state.
func (m *Manager) WorldSpace() types.SpatialTransformData { return m.world }

// UpdateCount returns how many times world state has been recomposed.
func (m *Manager) UpdateCount() uint64 { return m.updateCount }

// NeedsUpdate reports whether world state is stale.
func (m *Manager) NeedsUpdate() bool { return m.worldSpaceNeedsUpdate }

// Get answers spatial flags with the matching local or world value, so an
// owning object can expose the manager through an observer.Source.
func (m *Manager) Get(bits changes.BitMask) observer.Value {
	switch bits {
	case changes.SpatialLocalPosition:
		return observer.Vec3Value(m.local.Position)
	case changes.SpatialLocalRotation:
		return observer.Vec3Value(m.local.RotationEuler)
	case changes.SpatialLocalRotationQuat:
		return observer.QuatValue(m.local.RotationQuat)
	case changes.SpatialLocalScale:
		return observer.Vec3Value(m.local.Scale)
	case changes.SpatialLocalTransform:
		return observer.Mat4Value(m.local.Transform)
	case changes.SpatialAllLocalNoTransform:
		return observer.SpatialDataValue(m.local.SpatialData)
	case changes.SpatialAllLocal:
		return observer.SpatialTransformDataValue(m.local)

	case changes.SpatialWorldPosition:
		return observer.Vec3Value(m.world.Position)
	case changes.SpatialWorldRotation:
		return observer.Vec3Value(m.world.RotationEuler)
	case changes.SpatialWorldRotationQuat:
		return observer.QuatValue(m.world.RotationQuat)
	case changes.SpatialWorldScale:
		return observer.Vec3Value(m.world.Scale)
	case changes.SpatialWorldTransform:
		return observer.Mat4Value(m.world.Transform)
	case changes.SpatialAllWorldNoTransform:
		return observer.SpatialDataValue(m.world.SpatialData)
	case changes.SpatialAllWorld:
		return observer.SpatialTransformDataValue(m.world)
	}
	return observer.Null
}
