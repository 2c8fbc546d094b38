package diamonds

// Column names of the canonical schema.
const (
	ColCarat   = "carat"
	ColCut     = "cut"
	ColColor   = "color"
	ColClarity = "clarity"
	ColDepth   = "depth"
	ColTable   = "table"
	ColPrice   = "price"
	ColX       = "observation_point_on_axis_x"
	ColY       = "observation_point_on_axis_y"
	ColZ       = "observation_point_on_axis_z"

	ColFeature       = "feature"
	ColOriginalValue = "original_value"
	ColEncodedValue  = "encoded_value"
)

// CanonicalColumns is the column order rows take after renaming.
var CanonicalColumns = []string{
	ColCarat, ColCut, ColColor, ColClarity, ColDepth, ColTable, ColPrice, ColX, ColY, ColZ,
}

// recordColumns is the emitted order for the cut and cut_binary modes: the
// label column moves to the end.
var recordColumns = []string{
	ColCarat, ColColor, ColClarity, ColDepth, ColTable, ColPrice, ColX, ColY, ColZ, ColCut,
}

var encodingColumns = []string{ColFeature, ColOriginalValue, ColEncodedValue}

// Row is one emitted record. Columns and Values are parallel slices.
type Row interface {
	Columns() []string
	Values() []any
}

// ToMap turns a row into a column name to value mapping.
func ToMap(r Row) map[string]any {
	cols, vals := r.Columns(), r.Values()
	m := make(map[string]any, len(cols))
	for i, c := range cols {
		m[c] = vals[i]
	}
	return m
}

// DiamondRecord is one cleaned, encoded diamond.
type DiamondRecord struct {
	Carat   float64 `json:"carat"`
	Color   string  `json:"color"`
	Clarity int     `json:"clarity"`
	Depth   float64 `json:"depth"`
	Table   float64 `json:"table"`
	Price   float64 `json:"price"`
	X       float64 `json:"observation_point_on_axis_x"`
	Y       float64 `json:"observation_point_on_axis_y"`
	Z       float64 `json:"observation_point_on_axis_z"`
	Cut     int     `json:"cut"`
}

// Columns implements Row
func (r DiamondRecord) Columns() []string {
	return recordColumns
}

// Values implements Row
func (r DiamondRecord) Values() []any {
	return []any{r.Carat, r.Color, r.Clarity, r.Depth, r.Table, r.Price, r.X, r.Y, r.Z, r.Cut}
}

// EncodingEntry is one row of the encoding reference table.
type EncodingEntry struct {
	Feature       string `json:"feature"`
	OriginalValue string `json:"original_value"`
	EncodedValue  int8   `json:"encoded_value"`
}

// Columns implements Row
func (e EncodingEntry) Columns() []string {
	return encodingColumns
}

// Values implements Row
func (e EncodingEntry) Values() []any {
	return []any{e.Feature, e.OriginalValue, e.EncodedValue}
}

// Example pairs a row with its identifier.
type Example struct {
	ID  int
	Row Row
}
