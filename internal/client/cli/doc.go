// Package cli provides the interactive caregiver command-line client.
//
// The flow mirrors the mobile app it replaces: a splash banner with a
// connectivity probe, then the login prompt, then a REPL with
//
//	help | login | register | home | logout | exit
//
// Login and register show "Loading..." for the whole attempt and retry
// sequence; Ctrl-C while it runs abandons the command and discards its
// result. The REPL is started via App.Run, which blocks until the user exits.
package cli
