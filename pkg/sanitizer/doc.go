// Package sanitizer normalizes user-supplied profile and room data before
// validation and storage.
//
// Every function is idempotent and never fails: input that cannot be
// normalized comes back as an empty string (or is dropped from a slice), and
// the validator decides whether an empty value is acceptable.
//
//   - Phone numbers: E.164 via libphonenumber, trying the configured default regions
//   - Emails: trimmed and lowercased
//   - Names and free text: whitespace collapsed and trimmed
//   - URLs: https enforced, host lowercased, tracking parameters removed
//   - Slices: duplicates and empty values removed after normalization
package sanitizer
