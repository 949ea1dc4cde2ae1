// Package core provides the hushpass verifier operations.
//
// Core operations include:
//   - Enroll: Store a verifier derived from a password's fold chain
//   - Verify: Check a password against its enrolled verifier
//   - ChangePassword: Replace a verifier after checking the current password
//   - Forget: Remove an enrollment
//   - List: Show enrollments without any secret material
//
// A verifier is a fixed check string sealed with AES-256-GCM under a key
// stretched from the chain (PBKDF2 or Argon2id), with the enrolled name as
// additional data. Only someone who types the same characters can open it.
//
// Passwords come from the terminal via package prompt, or from the
// HUSHPASS_PASSWORD environment variable for scripts.
package core
