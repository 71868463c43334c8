package observer

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/changebus/internal/core/spatial/types"
)

func TestValue(t *testing.T) {
	t.Run("Kinds", func(t *testing.T) {
		require.Equal(t, KindNull, Null.Kind())
		require.Equal(t, KindBool, BoolValue(true).Kind())
		require.Equal(t, KindMat4, Mat4Value(types.IdentityMatrix()).Kind())
		require.Equal(t, "spatial_transform", KindSpatialTransformData.String())
	})

	t.Run("Mismatched Reads Fall Back", func(t *testing.T) {
		v := StringValue("name")
		require.False(t, v.AsBool())
		require.Zero(t, v.AsInt())
		require.Equal(t, types.IdentityMatrix(), v.AsMat4())
		require.Equal(t, types.IdentityQuat(), v.AsQuat())
		require.Equal(t, types.NewSpatialData(), v.AsSpatialData())
	})

	t.Run("Numeric Conversion", func(t *testing.T) {
		require.Equal(t, float32(3), IntValue(3).AsFloat())
		require.Equal(t, int64(2), FloatValue(2.9).AsInt())
	})

	t.Run("Quaternion Travels As Vector4", func(t *testing.T) {
		q := math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), 1)
		v := QuatValue(q)
		require.Equal(t, KindVec4, v.Kind())
		require.Equal(t, q, v.AsQuat())
		require.Equal(t, q, types.QuatFromVector4(v.AsVec4()))
	})

	t.Run("Spatial Data Promotes To Transform Data", func(t *testing.T) {
		sd := types.NewSpatialData()
		sd.Position = math32.Vec3(4, 5, 6)
		td := SpatialDataValue(sd).AsSpatialTransformData()
		require.Equal(t, sd, td.SpatialData)
		require.Equal(t, sd.Matrix(), td.Transform)
		require.Equal(t, []float32{4, 5, 6}, td.Transform[12:15])
	})
}
