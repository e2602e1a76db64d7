package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
)

// MockOCREngine mocks an OCR engine. Texts and Errors are keyed by the image
// base name; images without an entry yield "text of <name>".
type MockOCREngine struct {
	mu     sync.Mutex
	Texts  map[string]string
	Errors map[string]error
	Calls  []string
	Closed bool
}

// Recognize mocks recognizing the text of an image
func (m *MockOCREngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := filepath.Base(imagePath)
	m.Calls = append(m.Calls, name)

	if err, ok := m.Errors[name]; ok {
		return "", err
	}
	if text, ok := m.Texts[name]; ok {
		return text, nil
	}
	return fmt.Sprintf("text of %s", name), nil
}

// Name returns the mock engine name
func (m *MockOCREngine) Name() string { return "mock" }

// Close records that the engine was released
func (m *MockOCREngine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// MockTranslator mocks a translation backend
type MockTranslator struct {
	mu           sync.Mutex
	Translations map[string]string
	Errors       map[string]error
	Calls        []string
	Closed       bool
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, text)

	if err, ok := m.Errors[text]; ok {
		return "", err
	}
	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}

	// Default mock translation
	return fmt.Sprintf("mock translation of %s", text), nil
}

// Name returns the mock backend name
func (m *MockTranslator) Name() string { return "mock" }

// Close records that the backend was released
func (m *MockTranslator) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// CallCount returns how often Translate was called
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// TestDataGenerator generates test data
type TestDataGenerator struct{}

// GenerateJapaneseLine returns a short line of manga dialogue
func (g *TestDataGenerator) GenerateJapaneseLine() string {
	lines := []string{"こんにちは", "おはようございます", "ありがとう", "行くぞ！"}
	return lines[0]
}

// GenerateImageData generates mock image data
func (g *TestDataGenerator) GenerateImageData() []byte {
	// Simple mock PNG header
	return []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
}
