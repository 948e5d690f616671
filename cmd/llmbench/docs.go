// Command llmbench measures streaming throughput of a local LLM server and
// prepares configurations for evolutionary code search.
//
// Usage:
//
//	llmbench bench [--model NAME] [--prompt TEXT] [--url URL] [--runs N] [--history DB] [--metrics-file PATH]
//	llmbench evo presets|render|validate|launch
//	llmbench mock [--addr :11434] [--token-delay-ms N]
//	llmbench history --db DB
//
// A .env file in the working directory is loaded before flags are parsed;
// LLMBENCH_CONFIG and LLMBENCH_LOG_LEVEL provide flag defaults.
//
// General API documentation for the mock server, read by swaggo.
//
// @title           llmbench mock API
// @version         1.0
// @description     Ollama-compatible mock generation endpoint used to benchmark without a real LLM server.
//
// @contact.name   llmbench maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
package main
