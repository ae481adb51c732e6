// Package validation provides common validation utilities for the tpool library.
package validation
