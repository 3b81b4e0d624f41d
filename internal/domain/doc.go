// Package domain contains the core entities of the task dashboard:
// task files with their front-matter metadata, work log entries, and
// the validation rules that keep both safe to persist. It has no
// dependencies on other application packages.
package domain
