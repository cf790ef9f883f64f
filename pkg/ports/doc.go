/*
Package ports defines the driven ports (interfaces) around the Peek flattener.

These interfaces decouple the flattening core from its collaborators, so the same
Logger can be gated by a feature flag, a persisted setting or a request marker, and
can ship its output to a browser page, a terminal or a structured log.

# Key Interfaces

  - Gate: Decides per invocation whether flattening runs at all.
  - Transport: Renders a flattened tree with its label and delivers it.
  - SettingsStore: Persists the enablement flag (memory, YAML file or Redis).
*/
package ports
