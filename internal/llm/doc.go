// Package llm provides chat completion clients for the assistant. It
// supports Gemini, OpenAI and Anthropic, with rate limiting and retryable
// error classification shared across providers.
package llm
