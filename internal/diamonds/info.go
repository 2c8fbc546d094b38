package diamonds

// Dataset metadata published alongside the records.
const (
	DatasetName        = "diamonds"
	DatasetVersion     = "1.0.0"
	DatasetDescription = "Diamond quality dataset."
	DatasetHomepage    = "https://www.kaggle.com/datasets/ulrikthygepedersen/diamonds"

	// DefaultSourceURL is where the raw CSV is published upstream.
	DefaultSourceURL = "https://huggingface.co/datasets/mstz/diamonds/raw/main/diamonds.csv"
)

// FeatureInfo describes one output column.
type FeatureInfo struct {
	Name  string   `json:"name"`
	Type  string   `json:"type"`
	Names []string `json:"names,omitempty"` // class names, for class_label columns
}

// DatasetInfo describes the output of one mode.
type DatasetInfo struct {
	Name        string        `json:"name"`
	Config      Mode          `json:"config"`
	Version     string        `json:"version"`
	Description string        `json:"description"`
	Homepage    string        `json:"homepage"`
	Features    []FeatureInfo `json:"features"`
}

var modeDescriptions = map[Mode]string{
	ModeEncoding:  "Encoding dictionaries for discrete features.",
	ModeCut:       "5-ary classification, predict the cut quality of the diamond.",
	ModeCutBinary: "Binary classification.",
}

// Info returns the metadata of mode.
func Info(mode Mode) (*DatasetInfo, error) {
	cols, err := mode.Columns()
	if err != nil {
		return nil, err
	}

	info := &DatasetInfo{
		Name:        DatasetName,
		Config:      mode,
		Version:     DatasetVersion,
		Description: DatasetDescription + " " + modeDescriptions[mode],
		Homepage:    DatasetHomepage,
	}
	for _, col := range cols {
		info.Features = append(info.Features, featureInfo(mode, col))
	}
	return info, nil
}

func featureInfo(mode Mode, col string) FeatureInfo {
	switch col {
	case ColColor, ColFeature, ColOriginalValue:
		return FeatureInfo{Name: col, Type: "string"}
	case ColEncodedValue:
		return FeatureInfo{Name: col, Type: "int8"}
	case ColCut:
		if mode == ModeCutBinary {
			return FeatureInfo{Name: col, Type: "class_label", Names: []string{"no", "yes"}}
		}
		names, _ := Labels(FeatureCut)
		return FeatureInfo{Name: col, Type: "class_label", Names: names}
	case ColClarity:
		return FeatureInfo{Name: col, Type: "int8"}
	default:
		return FeatureInfo{Name: col, Type: "float32"}
	}
}
