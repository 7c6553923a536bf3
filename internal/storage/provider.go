// Package storage reads and writes the files of one language directory.
package storage

// Provider is the interface for language-directory file operations.
// All names are relative to the directory root.
type Provider interface {
	// Root returns the absolute path of the directory.
	Root() string
	// List returns the names of regular files ending in ext, sorted.
	List(ext string) ([]string, error)
	// Exists reports whether name is present.
	Exists(name string) bool
	// Read returns the raw bytes of name.
	Read(name string) ([]byte, error)
	// Write atomically replaces name with content.
	Write(name string, content []byte) error
}
