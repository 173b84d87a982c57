// Copyright 2026 Quarterlane Labs
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


// Package storage provides the storage abstraction layer for docbase.
//
// This package defines repository interfaces that decouple storage
// implementation from the pipeline and search logic. It allows different
// storage backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// Two repositories exist:
//
//   - ChunkRepository: the vector store. Chunks are keyed by an ID derived
//     from (source path, chunk index), so upserts are idempotent: repeated
//     writes of the same chunk replace rather than duplicate.
//   - ProgressRepository: the durable per-file processing state consumed
//     by the pipeline's resume machinery.
//
// Public constructors in backend packages return these interfaces rather
// than concrete types, preventing accidental coupling to BadgerDB
// specifics and letting tests substitute in-memory implementations.
//
// All repository methods accept context.Context and must be safe for
// concurrent use, although the pipeline itself is single-writer.
package storage
