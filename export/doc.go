// Package export converts stores to and from CSV and renders them as
// Graphviz DOT.
//
// The CSV layout has one row per edge:
//
//	vault;edge_id;relation;edge_attrs;from_id;from_label;from_attrs;to_id;to_label;to_attrs
//
// Attribute columns hold k=v pairs joined by '|' in key order. A literal
// '\', '|' or '=' inside a key or value is escaped with a backslash.
// ReadCSV re-shares vertices by id, so a vertex that appears in several rows
// is a single *model.Vertex in the rebuilt store.
package export
