// Package secstr provides SecStr, a byte container for passwords read at a
// terminal.
//
// Content lives in a region allocated once per buffer, outside the Go heap
// where the platform allows (anonymous mmap), locked against swap with
// mlock and, on Linux, excluded from core dumps. Destroy zeroes the whole
// region before unlocking and unmapping it. Locking is best effort: when
// mmap or mlock is refused the buffer keeps working without the guarantee.
//
// Every append folds the content through a digest:
//
//	content = hex(H(content || utf8(r)))
//
// so a SecStr filled by Push never holds more than one typed character of
// plaintext, and its final content is the hash chain of everything typed,
// not the literal password. H is SHA-512 unless another Algorithm is chosen.
//
// A SecStr formats as "***SECRET***" under every fmt verb and encoding,
// and Equal compares in constant time for equal lengths.
package secstr
