// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldScript     = "script"
	FieldWorkingDir = "working_dir"
	FieldURI        = "uri"

	// Lexing fields.
	FieldLanguage = "language"
	FieldDialect  = "dialect"
	FieldBytes    = "bytes"
	FieldTokens   = "tokens"
	FieldDuration = "duration"
	FieldStatus   = "status"

	// Edit fields.
	FieldOffset  = "offset"
	FieldLength  = "length"
	FieldSteps   = "steps"
	FieldOp      = "op"
	FieldAdded   = "added"
	FieldRemoved = "removed"

	// Configuration fields.
	FieldJobs   = "jobs"
	FieldFormat = "format"
	FieldWrite  = "write"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesPartial    = "files_partial"
	FieldTokensTotal     = "tokens_total"
	FieldFilesModified   = "files_modified"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
