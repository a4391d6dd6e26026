// Package sanitizer normalizes user supplied values before validation and storage.
//
// Every function is idempotent and tolerant of bad input: unparseable values
// come back unchanged or empty rather than as errors, leaving rejection to
// the validators.
//
//   - Text: collapse inner whitespace, trim the ends
//   - Emails: trimmed and lower-cased
//   - Phone numbers: E.164, parsed against the Indian region unless a country code is present
//   - ID lists: trimmed, de-duplicated, empties dropped
//   - File names: reduced to a safe extension for stored uploads
package sanitizer
