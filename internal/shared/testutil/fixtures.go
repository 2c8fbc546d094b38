package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleCSV is a slice of the raw dataset as published: byte-literal labels
// and one row (the fourth) that repeats the first on every key column.
const SampleCSV = `carat,cut,color,clarity,depth,table,price,x,y,z
0.23,b'Ideal',b'E',b'SI2',61.5,55.0,326.0,3.95,3.98,2.43
0.21,b'Premium',b'E',b'SI1',59.8,61.0,326.0,3.89,3.84,2.31
0.23,b'Good',b'E',b'VS1',56.9,65.0,327.0,4.05,4.07,2.31
0.23,b'Ideal',b'E',b'SI2',61.5,55.0,326.0,4.00,4.01,2.50
0.29,b'Very Good',b'I',b'VS2',62.4,58.0,334.0,4.2,4.23,2.63
`

// SampleRows is the number of data rows in SampleCSV
const SampleRows = 5

// WriteSampleCSV writes SampleCSV into a fresh temp dir and returns its path
func WriteSampleCSV(t *testing.T) string {
	t.Helper()
	return WriteFile(t, "diamonds.csv", SampleCSV)
}

// WriteFile writes content to name inside a fresh temp dir
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
