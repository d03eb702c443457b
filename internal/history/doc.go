// Package history records finished build edges in a SQLite database so
// slow or failing steps can be inspected after the build is gone.
//
// One row is stored per build session and one per finished edge. The
// database uses WAL mode so a frontend can record while another process
// reads.
package history
