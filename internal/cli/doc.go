// Package cli wires the validoc subcommands onto a cobra command tree.
//
// One subcommand runs per invocation. Outcomes, failures included, are printed
// and do not turn into command errors, so only argument problems make the
// process exit non-zero.
package cli
