// Package types defines the greeter configuration, the error taxonomy,
// and the journal entry type shared by the hello library and its CLI.
package types
