// Package ingest reads the list of words for a batch from an uploaded
// tabular file. Spreadsheets (.xlsx, .xlsm) are read with excelize; any
// other file is parsed as UTF-8 CSV.
package ingest
