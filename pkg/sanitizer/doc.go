// Package sanitizer normalizes user input before it is validated and stored.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. Functions handle invalid input gracefully, typically by returning
// empty strings or empty slices rather than errors, and leave rejection to validation.
//
// Normalization includes:
//   - E-mails: trimmed and lower-cased
//   - Phone numbers: Convert to E.164 format (+[country][number])
//   - URLs: Enforce HTTPS, lowercase domains, preserve paths, drop utm_ parameters
//   - Strings: Collapse whitespace, trim leading/trailing spaces
//   - Codes: country and currency codes upper-cased
//   - Amenities: lower-cased, duplicates and empty values removed
//   - Numbers: Clamp to valid ranges
package sanitizer
