// Package main provides the entry point of the infoscreen settings service.
// It serves a single settings record (dark mode, slide interval) through a JSON
// API built on fiber. The record is stored with gorm in SQLite, PostgreSQL or
// MySQL and cached in process; the first read creates the defaults.
package main
