// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldFlavor    = "flavor"
	FieldConfig    = "config"
	FieldWindow    = "selection_window"
	FieldResources = "resources"
	FieldScripts   = "scripts"

	// Decoration fields.
	FieldRule        = "rule"
	FieldScope       = "scope"
	FieldFrom        = "from"
	FieldTo          = "to"
	FieldKind        = "kind"
	FieldDecorations = "decorations"
	FieldToken       = "token"
	FieldAddr        = "addr"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
	FieldGo      = "go"
)
