package diamonds

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		feature string
		label   string
		want    int
	}{
		{FeatureCut, "Fair", 0},
		{FeatureCut, "Good", 1},
		{FeatureCut, "Very Good", 2},
		{FeatureCut, "Premium", 3},
		{FeatureCut, "Ideal", 4},
		{FeatureClarity, "IF", 0},
		{FeatureClarity, "VVS1", 1},
		{FeatureClarity, "VVS2", 2},
		{FeatureClarity, "VS1", 3},
		{FeatureClarity, "VS2", 4},
		{FeatureClarity, "SI1", 5},
		{FeatureClarity, "SI2", 6},
		{FeatureClarity, "I1", 7},
	}

	for _, tt := range tests {
		t.Run(tt.feature+"/"+tt.label, func(t *testing.T) {
			got, err := Encode(tt.feature, tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			back, err := Decode(tt.feature, got)
			require.NoError(t, err)
			assert.Equal(t, tt.label, back)
		})
	}
}

func TestEncode_UnknownLabel(t *testing.T) {
	tests := []struct {
		feature string
		label   string
	}{
		{FeatureClarity, "ZZ"},
		{FeatureCut, "ideal"},
		{FeatureCut, " Ideal"},
		{FeatureCut, "Very"},
	}

	for _, tt := range tests {
		_, err := Encode(tt.feature, tt.label)
		var labelErr *UnknownLabelError
		require.True(t, errors.As(err, &labelErr), "expected UnknownLabelError for %q", tt.label)
		assert.Equal(t, tt.feature, labelErr.Feature)
		assert.Equal(t, tt.label, labelErr.Label)
	}
}

func TestEncode_UnknownFeature(t *testing.T) {
	_, err := Encode("unknown_feature", "x")

	var featureErr *UnknownFeatureError
	require.True(t, errors.As(err, &featureErr))
	assert.Equal(t, "unknown_feature", featureErr.Feature)

	// color is carried as a letter, it has no table
	_, err = Encode("color", "E")
	assert.True(t, errors.As(err, &featureErr))
}

func TestDecode_UnknownCode(t *testing.T) {
	_, err := Decode(FeatureCut, 5)
	var labelErr *UnknownLabelError
	assert.True(t, errors.As(err, &labelErr))
}

func TestEncodingTable(t *testing.T) {
	table := EncodingTable()
	require.Len(t, table, 13)

	cutNames, err := Labels(FeatureCut)
	require.NoError(t, err)
	clarityNames, err := Labels(FeatureClarity)
	require.NoError(t, err)

	for i, name := range cutNames {
		assert.Equal(t, EncodingEntry{Feature: FeatureCut, OriginalValue: name, EncodedValue: int8(i)}, table[i])
	}
	for i, name := range clarityNames {
		assert.Equal(t, EncodingEntry{Feature: FeatureClarity, OriginalValue: name, EncodedValue: int8(i)}, table[len(cutNames)+i])
	}

	for _, e := range table {
		code, err := Encode(e.Feature, e.OriginalValue)
		require.NoError(t, err)
		assert.Equal(t, int(e.EncodedValue), code)
	}
}

func TestLabels_UnknownFeature(t *testing.T) {
	_, err := Labels("price")
	var featureErr *UnknownFeatureError
	assert.True(t, errors.As(err, &featureErr))
}
