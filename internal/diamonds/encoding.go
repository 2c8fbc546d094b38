package diamonds

import (
	"strconv"
)

// Encoded feature names.
const (
	FeatureCut     = "cut"
	FeatureClarity = "clarity"
)

// label is one entry of a fixed lookup table.
type label struct {
	name string
	code int
}

// Lookup tables in declaration order. Cut runs worst to best, clarity best to
// worst; both orders are part of the published encoding.
var (
	cutLabels = []label{
		{"Fair", 0},
		{"Good", 1},
		{"Very Good", 2},
		{"Premium", 3},
		{"Ideal", 4},
	}

	clarityLabels = []label{
		{"IF", 0},
		{"VVS1", 1},
		{"VVS2", 2},
		{"VS1", 3},
		{"VS2", 4},
		{"SI1", 5},
		{"SI2", 6},
		{"I1", 7},
	}

	// encodedFeatures lists the tables in the order the encoding reference emits them.
	encodedFeatures = []string{FeatureCut, FeatureClarity}
)

func tableFor(feature string) ([]label, error) {
	switch feature {
	case FeatureCut:
		return cutLabels, nil
	case FeatureClarity:
		return clarityLabels, nil
	default:
		return nil, &UnknownFeatureError{Feature: feature}
	}
}

// Encode returns the fixed integer code of a sanitized label. Matching is
// exact: no case folding, no trimming.
func Encode(feature, value string) (int, error) {
	labels, err := tableFor(feature)
	if err != nil {
		return 0, err
	}
	for _, l := range labels {
		if l.name == value {
			return l.code, nil
		}
	}
	return 0, &UnknownLabelError{Feature: feature, Label: value, Row: -1}
}

// Decode is the inverse of Encode.
func Decode(feature string, code int) (string, error) {
	labels, err := tableFor(feature)
	if err != nil {
		return "", err
	}
	for _, l := range labels {
		if l.code == code {
			return l.name, nil
		}
	}
	return "", &UnknownLabelError{Feature: feature, Label: strconv.Itoa(code), Row: -1}
}

// Labels returns the labels of a feature in declaration order.
func Labels(feature string) ([]string, error) {
	labels, err := tableFor(feature)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.name
	}
	return names, nil
}

// EncodingTable returns the static encoding reference: every cut label, then
// every clarity label, each in declaration order.
func EncodingTable() []EncodingEntry {
	var entries []EncodingEntry
	for _, feature := range encodedFeatures {
		labels, _ := tableFor(feature)
		for _, l := range labels {
			entries = append(entries, EncodingEntry{
				Feature:       feature,
				OriginalValue: l.name,
				EncodedValue:  int8(l.code),
			})
		}
	}
	return entries
}
