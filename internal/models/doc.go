// Package models lists the OpenAI models available to an API key, grouped
// into models usable for vision OCR and models usable for translation.
package models
