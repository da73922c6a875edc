// Package cli provides the interactive gophauth command-line client.
//
// It wires configuration, the local session store, the API client and an
// interactive REPL. On start it restores a saved session and verifies it
// with the server, then runs a background connectivity watcher while the
// user types commands.
//
// Commands:
//   - register, login, logout
//   - forgot (request a reset code), reset (use it)
//   - whoami, ping
//   - help, exit | quit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
