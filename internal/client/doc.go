// Package client talks to the validoc document service.
//
// Every operation reads the named file first, so a missing or unreadable file is
// reported as KindIO before any request is built. Upload and Verify then issue
// exactly one POST each; nothing is retried. Hash never touches the network.
package client
