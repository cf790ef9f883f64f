/*
Package domain contains the core data model shared by the Peek flattener and its collaborators.

It defines the shape of a flattened value (the output node tree), the terminal
markers used when a bound is hit or a value cannot be safely introspected, and
the sentinel errors returned by the adapters. It does no I/O.

# Key Entities

  - Node: A flattened value (scalar, sequence, ordered mapping or terminal marker).
  - Map: An insertion-ordered string-keyed mapping.
  - MarkerKind: The tag carried by a terminal marker (max_depth_reached, closure, ...).
  - Settings: The persisted enablement flag.
  - LogEvent, LogHooks: What a Logger reports to observers on every call.
*/
package domain
