// Package security validates user-supplied names before they reach the
// store or the OS keyring.
package security
