// Package crypto provides the cryptographic helpers behind hushpass verifiers.
//
// A verifier is an AES-256-GCM sealed check string whose key is stretched from
// a password's fold chain:
//   - PBKDF2-HMAC-SHA256, 210,000 iterations (default)
//   - Argon2id, time 3, 64 MiB, 4 threads (optional)
//   - 32-byte random salt stored next to the verifier
//   - 12-byte random nonce per seal, record name as additional data
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call Encryptor.Destroy() when done with encryption operations
package crypto
