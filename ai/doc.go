// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides the external answer generator used by memberqa.
//
// The rule-based pipeline answers every question on its own. When an
// OpenAI-compatible model is configured, answers can instead be generated
// from the same ranked messages.
//
// # Capability
//
// Whether the generator is used is decided once at startup by
// ResolveCapability, never inside the answer path:
//
//   - ModeAuto: generate iff OPENAI_API_KEY is set
//   - ModeRules: never generate
//   - ModeLLM: always generate; if the generator is not configured,
//     answers say the service is unavailable
//
// # Implementation Packages
//
//   - ai/openai: Generator backed by langchaingo
//   - ai/mock: test double with function injection and call counting
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithAPIKey(key))
//	capability := ai.ResolveCapability(cfg)
//	if capability.UsesGenerator() {
//	    gen, err := openai.NewGenerator(cfg)
//	    ...
//	    answer, err := gen.Generate(ctx, question, docs)
//	}
package ai
