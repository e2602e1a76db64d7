// Package references loads reference translations used for BLEU scoring.
// A reference file holds one entry per page, in page order; each entry
// lists one or more acceptable translations.
package references
