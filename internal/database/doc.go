// Package database provides SQLite-based storage for scan history.
//
// Every completed check is recorded so past runs can be listed and
// inspected later. The database lives in the XDG data directory and
// uses modernc.org/sqlite, a pure-Go driver that avoids cgo and keeps
// cross-compilation simple.
package database
