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


// Package openai implements ai.Generator using OpenAI-compatible chat APIs.
//
// The langchaingo client talks to OpenAI or any compatible server (Ollama,
// LocalAI, vLLM) selected through ai.Config.BaseURL.
//
// # Usage
//
//	cfg := ai.NewConfig(
//	    ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	    ai.WithModel("gpt-4o-mini"),
//	)
//
//	gen, err := openai.NewGenerator(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	answer, err := gen.Generate(ctx, "When is Layla going to London?", docs)
package openai
