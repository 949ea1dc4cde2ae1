// Package logging holds the process-wide logger used by hushpass.
//
// Output goes to stderr so stdout stays free for command results such as
// the chain printed by "hushpass read". Nothing in hushpass passes secret
// bytes to the logger; secstr values format as a placeholder regardless.
package logging
