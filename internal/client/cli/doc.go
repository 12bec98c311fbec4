// Package cli provides the interactive Sumdays command-line client.
//
// The REPL edits the local journal (memos, diary entries, writing styles and
// week summaries) whether or not the server is reachable; changes are
// uploaded by the background backup. A connectivity watcher switches the
// prompt between online and offline mode.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
