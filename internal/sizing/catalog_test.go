package sizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/armascan/internal/detector"
)

func TestCatalog(t *testing.T) {
	sizes := Catalog()
	require.Len(t, sizes, 6)

	keys := make([]string, len(sizes))
	for i, s := range sizes {
		keys[i] = s.Key
	}
	assert.Equal(t, []string{"S", "M", "L", "XL", "2XL", "3XL"}, keys)

	for i := 1; i < len(sizes); i++ {
		assert.Greater(t, sizes[i].PalmWidthCm, sizes[i-1].PalmWidthCm, "palm width should grow with size")
	}

	for _, s := range sizes {
		assert.Len(t, s.FingerLengthsCm, len(detector.Fingers), "size %s", s.Key)
		assert.NotEmpty(t, s.ModelFile, "size %s", s.Key)
	}
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	sizes := Catalog()
	sizes[0].PalmWidthCm = 99
	sizes[0].FingerLengthsCm[detector.Thumb] = 99

	fresh, err := Lookup("S")
	require.NoError(t, err)
	assert.Equal(t, 6.24, fresh.PalmWidthCm)
	assert.Equal(t, 7.1, fresh.FingerLengthsCm[detector.Thumb])
}

func TestLookup(t *testing.T) {
	t.Run("case insensitive", func(t *testing.T) {
		s, err := Lookup("2xl")
		require.NoError(t, err)
		assert.Equal(t, "2XL", s.Key)
		assert.Equal(t, 7.13, s.PalmWidthCm)
		assert.Equal(t, "arma_2xl.stl", s.ModelFile)
	})

	t.Run("unknown size", func(t *testing.T) {
		_, err := Lookup("XXS")
		assert.ErrorIs(t, err, ErrUnknownSize)
	})
}

func TestParseSport(t *testing.T) {
	tests := []struct {
		in      string
		want    Sport
		wantErr bool
	}{
		{"", "", false},
		{"golf", Golf, false},
		{"Lacrosse", Lacrosse, false},
		{"curling", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSport(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownSport)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
