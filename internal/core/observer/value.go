package observer

import (
	"cogentcore.org/core/math32"

	"github.com/zeusync/changebus/internal/core/spatial/types"
)

// Kind identifies which member of a Value is set.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindVec3
	KindVec4
	KindMat4
	KindSpatialData
	KindSpatialTransformData
)

var kindNames = [...]string{
	KindNull:                 "null",
	KindBool:                 "bool",
	KindInt:                  "int",
	KindFloat:                "float",
	KindString:               "string",
	KindVec3:                 "vec3",
	KindVec4:                 "vec4",
	KindMat4:                 "mat4",
	KindSpatialData:          "spatial",
	KindSpatialTransformData: "spatial_transform",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is the answer of a Source for one change flag. Reading it as a kind
// it does not hold yields that kind's null value, so callers never check for nil.
//
// Null values: false, 0, "", zero vectors, the identity quaternion, the
// identity matrix, and spatial data at the origin with identity rotation and
// unit scale.
type Value struct {
	kind    Kind
	b       bool
	i       int64
	f       float32
	s       string
	vec     math32.Vector4
	mat     math32.Matrix4
	spatial types.SpatialTransformData
}

// Null is the Value returned for unknown flags.
var Null = Value{}

func BoolValue(v bool) Value           { return Value{kind: KindBool, b: v} }
func IntValue(v int64) Value           { return Value{kind: KindInt, i: v} }
func FloatValue(v float32) Value       { return Value{kind: KindFloat, f: v} }
func StringValue(v string) Value       { return Value{kind: KindString, s: v} }
func Mat4Value(v math32.Matrix4) Value { return Value{kind: KindMat4, mat: v} }

func Vec3Value(v math32.Vector3) Value {
	return Value{kind: KindVec3, vec: math32.Vector4FromVector3(v, 0)}
}

func Vec4Value(v math32.Vector4) Value {
	return Value{kind: KindVec4, vec: v}
}

// QuatValue carries a quaternion as a Vector4.
func QuatValue(q math32.Quat) Value {
	return Vec4Value(types.QuatVector4(q))
}

func SpatialDataValue(v types.SpatialData) Value {
	return Value{kind: KindSpatialData, spatial: types.SpatialTransformData{SpatialData: v}}
}

func SpatialTransformDataValue(v types.SpatialTransformData) Value {
	return Value{kind: KindSpatialTransformData, spatial: v}
}

// Kind returns the kind of the held value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value holds nothing.
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() bool {
	return v.kind == KindBool && v.b
}

// AsInt returns integer values, and truncated float values.
func (v Value) AsInt() int64 {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return int64(v.f)
	}
	return 0
}

// AsFloat returns float values, and converted integer values.
func (v Value) AsFloat() float32 {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindInt:
		return float32(v.i)
	}
	return 0
}

func (v Value) AsString() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

func (v Value) AsVec3() math32.Vector3 {
	if v.kind != KindVec3 && v.kind != KindVec4 {
		return math32.Vector3{}
	}
	return math32.Vec3(v.vec.X, v.vec.Y, v.vec.Z)
}

func (v Value) AsVec4() math32.Vector4 {
	if v.kind != KindVec4 && v.kind != KindVec3 {
		return math32.Vector4{}
	}
	return v.vec
}

// AsQuat reads a Vector4 as a quaternion. Anything else, and the zero vector,
// reads as the identity.
func (v Value) AsQuat() math32.Quat {
	return types.QuatFromVector4(v.AsVec4())
}

func (v Value) AsMat4() math32.Matrix4 {
	switch v.kind {
	case KindMat4:
		return v.mat
	case KindSpatialTransformData:
		return v.spatial.Transform
	}
	return types.IdentityMatrix()
}

func (v Value) AsSpatialData() types.SpatialData {
	if v.kind != KindSpatialData && v.kind != KindSpatialTransformData {
		return types.NewSpatialData()
	}
	return v.spatial.SpatialData
}

// AsSpatialTransformData returns the held transform data. Plain spatial data is
// promoted by computing its matrix.
func (v Value) AsSpatialTransformData() types.SpatialTransformData {
	switch v.kind {
	case KindSpatialTransformData:
		return v.spatial
	case KindSpatialData:
		out := types.SpatialTransformData{SpatialData: v.spatial.SpatialData}
		out.Recompute()
		return out
	}
	return types.NewSpatialTransformData()
}
