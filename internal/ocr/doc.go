// Package ocr turns manga page images into recognized text. It resolves an
// image reference (one file or a directory listing) into paths, runs every
// path through an OCR Engine and returns the texts in listing order.
//
// Engines live in sub-packages (tesseract, ollama, openai, gemini) and
// register themselves by name; binaries blank-import the ones they ship.
package ocr
