// Package storage persists counter snapshots and reports changes made by
// other processes sharing the same backend.
//
// Two backends exist: a JSON file per key watched with fsnotify, and a
// SQLite kv table polled through PRAGMA data_version.
package storage
