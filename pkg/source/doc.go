// Package source loads component templates referenced by TemplateURL.
//
// Three loaders are provided:
//
//	DirLoader  reads from an fs.FS (usually os.DirFS of the project)
//	MapLoader  serves templates from memory, useful in tests
//	S3Loader   reads objects from an S3 bucket under a key prefix
//
// All loaders return a *LoadError wrapping ErrNotFound when the template
// does not exist.
package source
