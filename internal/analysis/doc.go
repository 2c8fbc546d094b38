// Package analysis provides the exploratory summaries run on the raw diamonds
// table before cleaning: per-column descriptive statistics, missing-value
// counts, category frequencies, histograms and PNG plots of them.
package analysis
