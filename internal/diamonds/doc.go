// Package diamonds turns the raw diamonds CSV into clean, encoded records.
//
// # Pipeline
//
// A single pass runs over a fully loaded table:
//
//	RawTable → sanitize → encode → rename/reorder → deduplicate → (binarize)
//
// Cut and clarity go through SanitizeLabel, which strips byte-literal
// leftovers such as b'Ideal'. Color goes through ColorLetter instead, which
// keeps the single grade letter. The two are deliberately separate.
//
// Encode maps the cleaned labels to fixed codes:
//
//	cut:     Fair=0 Good=1 Very Good=2 Premium=3 Ideal=4
//	clarity: IF=0 VVS1=1 VVS2=2 VS1=3 VS2=4 SI1=5 SI2=6 I1=7
//
// Rows repeating (carat, color, clarity, depth, table, price, cut) of an
// earlier row are dropped.
//
// # Modes
//
//	cut         all rows, cut in 0..4 (default)
//	cut_binary  all rows, cut 0 for Fair/Good/Very Good and 1 for Premium/Ideal
//	encoding    the encoding reference table; no input is read
//
// # Usage
//
//	seq, err := diamonds.Generate(ctx, diamonds.ModeCut, loader)
//	if err != nil {
//	    return err
//	}
//	for id, row := range seq {
//	    fmt.Println(id, diamonds.ToMap(row))
//	}
//
// # Errors
//
// UnknownFeatureError, UnknownLabelError and UnknownConfigError are returned as
// soon as they are hit and no rows are produced. Malformed numeric cells and
// missing columns surface as parsing errors from the internal/errors package.
package diamonds
