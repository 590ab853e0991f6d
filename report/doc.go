// Package report renders the outcome of a duplicate scan.
//
// The default format is a table with one row per duplicate file, sorted by
// digest, where a blank row separates consecutive groups. Markdown and CSV
// use the same rows; JSON lists the groups for scripting.
package report
