package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/solarcook/pkg/errors"
)

func TestEncodeTrigIdentity(t *testing.T) {
	for _, minute := range []int{-720, -1, 0, 1, 359, 540, 570, 720, 1439, 1440, 2000, 100000} {
		v := Encode(minute, 0)
		require.InDelta(t, 1.0, v.Sin*v.Sin+v.Cos*v.Cos, 1e-12, "minute %d", minute)
	}
}

func TestEncodeKnownAngles(t *testing.T) {
	midnight := Encode(0, 10)
	require.InDelta(t, 0, midnight.Sin, 1e-12)
	require.InDelta(t, 1, midnight.Cos, 1e-12)

	sixAM := Encode(360, 10)
	require.InDelta(t, 1, sixAM.Sin, 1e-12)
	require.InDelta(t, 0, sixAM.Cos, 1e-12)

	noon := Encode(720, 10)
	require.InDelta(t, -1, noon.Cos, 1e-12)
	require.Equal(t, 10.0, noon.Irradiance)
}

func TestEncodeBatchLengthMismatch(t *testing.T) {
	for left := 0; left <= 4; left++ {
		for right := 0; right <= 4; right++ {
			_, err := EncodeBatch(make([]int, left), make([]float64, right))
			if left == right {
				require.NoError(t, err)
				continue
			}
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, apperrors.CodeLengthMismatch))
		}
	}
}

func TestEncodeBatchPreservesOrder(t *testing.T) {
	vectors, err := EncodeBatch([]int{540, 570}, []float64{100, 150})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	require.Equal(t, 540, vectors[0].Minute)
	require.Equal(t, 150.0, vectors[1].Irradiance)

	rows := Rows(vectors)
	require.Equal(t, []float64{540, 100, vectors[0].Sin, vectors[0].Cos}, rows[0])
}

func TestExtendedRowAppendsPCM(t *testing.T) {
	v := Encode(600, 420)
	row := v.Extend(55.5).Row()
	require.Len(t, row, 5)
	require.Equal(t, 55.5, row[4])
	require.Equal(t, v.Row(), row[:4])
	require.False(t, math.IsNaN(row[2]))
}
