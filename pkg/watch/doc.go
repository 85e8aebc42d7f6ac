// Package watch re-runs work when watched files change.
//
// Files are watched through their parent directory with
// [github.com/fsnotify/fsnotify], so editors that replace files on save are
// handled. Events for other files in the same directory are ignored.
package watch
