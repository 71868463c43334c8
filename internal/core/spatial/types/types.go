package types

import "cogentcore.org/core/math32"

// SpatialData describes a position, rotation and scale in one space.
//
// RotationEuler and RotationQuat are expected to describe the same rotation,
// but nothing keeps them in step: whoever writes one is responsible for the other.
type SpatialData struct {
	Position      math32.Vector3
	RotationEuler math32.Vector3
	RotationQuat  math32.Quat
	Scale         math32.Vector3
}

// NewSpatialData returns spatial data at the origin with no rotation and unit scale.
func NewSpatialData() SpatialData {
	return SpatialData{
		RotationQuat: IdentityQuat(),
		Scale:        math32.Vec3(1, 1, 1),
	}
}

// Add combines parent and local state: position, euler rotation and scale are
// summed, quaternions are multiplied parent first.
func (s SpatialData) Add(local SpatialData) SpatialData {
	out := SpatialData{
		Position:      s.Position.Add(local.Position),
		RotationEuler: s.RotationEuler.Add(local.RotationEuler),
		Scale:         s.Scale.Add(local.Scale),
	}
	out.RotationQuat.MulQuats(s.RotationQuat, local.RotationQuat)
	return out
}

// Matrix returns the rotation and translation matrix, without scale.
func (s SpatialData) Matrix() math32.Matrix4 {
	var m math32.Matrix4
	m.SetTransform(s.Position, s.RotationQuat, math32.Vec3(1, 1, 1))
	return m
}

// SpatialTransformData is SpatialData plus its composed no-scale transform matrix.
type SpatialTransformData struct {
	SpatialData
	Transform math32.Matrix4
}

// NewSpatialTransformData returns identity spatial state and an identity matrix.
func NewSpatialTransformData() SpatialTransformData {
	return SpatialTransformData{
		SpatialData: NewSpatialData(),
		Transform:   IdentityMatrix(),
	}
}

// Recompute rebuilds Transform from the spatial fields.
func (s *SpatialTransformData) Recompute() {
	s.Transform = s.SpatialData.Matrix()
}

// Add composes parent (s) with local: fields as SpatialData.Add and the
// matrices multiplied parent first.
func (s SpatialTransformData) Add(local SpatialTransformData) SpatialTransformData {
	out := SpatialTransformData{SpatialData: s.SpatialData.Add(local.SpatialData)}
	out.Transform.MulMatrices(&s.Transform, &local.Transform)
	return out
}

// IdentityQuat returns the quaternion for no rotation.
func IdentityQuat() math32.Quat {
	var q math32.Quat
	q.SetIdentity()
	return q
}

// IdentityMatrix returns the 4x4 identity matrix.
func IdentityMatrix() math32.Matrix4 {
	var m math32.Matrix4
	m.SetIdentity()
	return m
}

// QuatVector4 packs q as X, Y, Z, W.
func QuatVector4(q math32.Quat) math32.Vector4 {
	return math32.Vec4(q.X, q.Y, q.Z, q.W)
}

// QuatFromVector4 unpacks a quaternion written by QuatVector4. The zero
// vector, which is what a missing value reads as, maps to the identity.
func QuatFromVector4(v math32.Vector4) math32.Quat {
	if v == (math32.Vector4{}) {
		return IdentityQuat()
	}
	return math32.Quat{X: v.X, Y: v.Y, Z: v.Z, W: v.W}
}
