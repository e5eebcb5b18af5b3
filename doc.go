// Package main provides the entry point for the user management application.
// It runs a web server using the Fiber framework that exposes a JSON API to
// create, update, delete and list users and to read groups with their
// permissions, plus a small server rendered admin interface. The application
// uses gorm for persistence on SQLite, MySQL or PostgreSQL.
package main
