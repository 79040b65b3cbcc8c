/*
Package domain contains the core domain models for the Espalier engine.

It defines the fundamental entities of the build pipeline: the Document being
constructed, Phrases (named transformation requests), Components (deferred
mutations recorded during dispatch), the BuilderState that holds them, and the
HistoryEntry snapshots captured along the way. This package is kept pure and
free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Document: The nested key/value structure a build produces.
  - Phrase: A named, parameterized request to apply one transformation step.
  - Component: A deferred mutation (filter) or behavior (callback) resolved
    after all phrases have run.
  - BuilderState: The working memory of one build session.
  - HistoryEntry: An aliasing-free snapshot of the build at a dispatch point.
*/
package domain
