// Package translation turns recognized manga text into the target language.
//
// A Translator binds a model identifier and lazily opens a Backend for it.
// The identifier selects the backend:
//
//	openai:<model>    OpenAI chat completion (e.g. openai:gpt-4o-mini)
//	gemini:<model>    Google Gemini (e.g. gemini:gemini-2.0-flash)
//	hf:<org/model>    Hugging Face inference API
//	<org/model>       same as hf:<org/model>
//
// Every backend is wrapped in a ResilientBackend that applies a timeout, an
// optional rate limit and a circuit breaker. A second model can be
// configured as fallback, in which case a FallbackBackend retries failed
// requests on it.
package translation
