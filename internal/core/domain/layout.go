// Package domain contains the core domain types for kern.
package domain

const (
	// KernFileName is the name of the project configuration file.
	KernFileName = "kern.yaml"

	// CrashLogFileName is the default name of the persisted failure artifact.
	CrashLogFileName = "kern_error.log"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
