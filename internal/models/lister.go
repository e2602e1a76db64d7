package models

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
	out    io.Writer
}

// NewLister creates a new model lister printing to stdout. baseURL
// overrides the API endpoint when not empty.
func NewLister(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
		out:    os.Stdout,
	}
}

// Categories groups model ids by their use in mangatl
type Categories struct {
	Vision []string // Chat models accepting images, usable with --engine openai
	Chat   []string // Text chat models, usable with --model openai:<id>
}

// visionMarkers identify chat model families that accept image input
var visionMarkers = []string{"4o", "gpt-4.1", "gpt-4-turbo", "gpt-5"}

func isReasoningModel(id string) bool {
	return strings.HasPrefix(id, "o1") || strings.HasPrefix(id, "o3") || strings.HasPrefix(id, "o4")
}

// Categorize sorts model ids into categories. Audio, realtime, embedding,
// moderation and image generation models are dropped.
func Categorize(ids []string) Categories {
	var c Categories
	for _, id := range ids {
		if strings.Contains(id, "tts") || strings.Contains(id, "audio") ||
			strings.Contains(id, "realtime") || strings.Contains(id, "transcribe") ||
			strings.Contains(id, "search") {
			continue
		}

		isChat := strings.Contains(id, "gpt") || strings.Contains(id, "chat") || isReasoningModel(id)
		if !isChat || strings.Contains(id, "image") {
			continue
		}

		c.Chat = append(c.Chat, id)
		if isReasoningModel(id) {
			c.Vision = append(c.Vision, id)
			continue
		}
		for _, marker := range visionMarkers {
			if strings.Contains(id, marker) {
				c.Vision = append(c.Vision, id)
				break
			}
		}
	}

	sort.Strings(c.Vision)
	sort.Strings(c.Chat)
	return c
}

// ListAvailableModels prints the available OpenAI models categorized by use
func (l *Lister) ListAvailableModels(ctx context.Context) error {
	if l.apiKey == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .mangatl.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	c := Categorize(ids)

	fmt.Fprintln(l.out, "Available OpenAI Models:")
	fmt.Fprintln(l.out, "\nVision Models (for --engine openai --ocr-model):")
	printModels(l.out, c.Vision, "  No vision models found")

	fmt.Fprintln(l.out, "\nChat/Translation Models (for --model openai:<model>):")
	printModels(l.out, c.Chat, "  No chat models found")

	return nil
}

func printModels(w io.Writer, models []string, empty string) {
	if len(models) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for _, model := range models {
		fmt.Fprintf(w, "  %s\n", model)
	}
}
