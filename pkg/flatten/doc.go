/*
Package flatten converts arbitrary Go values into bounded, human-inspectable trees.

A Flattener walks a value with reflection and returns a domain.Node restricted to
scalars, ordered sequences, ordered mappings and terminal markers. The walk is
bounded in depth (MaxDepth) and width (MaxItems), detects reference cycles through
pointer identity, and never lets a panic escape to the caller: any value that cannot
be introspected degrades to a marker instead.

# Classification

At each step the value is classified in this order:

  - depth guard: deeper than MaxDepth becomes {max_depth_reached: true}
  - resource: channels, unsafe pointers and io.Closer implementations become {resource_type: "<type>"}
  - callable: functions become {closure: "Function object"}
  - date/time: time.Time becomes {datetime: "<RFC 3339>", timezone: "<zone>"}
  - aggregate: pointers are checked against the visited set, structs expand every field, exported or not
  - sequence/mapping: slices, arrays and maps expand element by element, truncated after MaxItems
  - scalar: returned unchanged

# State

Traversal state (depth and visited identities) belongs to a single top-level call.
Flatten allocates it for you; FlattenWith accepts an explicit *State when a caller
needs to inspect it afterwards. A Flattener itself is immutable and safe for
concurrent use.
*/
package flatten
