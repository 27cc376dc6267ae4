// Package artifact manages the files a batch job reads and writes on disk:
// the staged upload it consumes and the per-job directory of generated decks.
//
// Every path handed out by this package is resolved under its configured
// root; job ids and file names coming from HTTP requests are never joined
// onto the filesystem without validation.
package artifact
