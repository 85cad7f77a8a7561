// Package normalize maps raw form input to the canonical value stored for each
// field kind. Every function is pure: normalization never fails, it only
// narrows the character set and casing of its input.
package normalize
