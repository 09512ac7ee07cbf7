// Package sem holds the resolved, validated form of a module: types of
// expressions, folded constants, variables with their bindings, functions with
// their behaviors and call graphs. Code generation reads it through the query
// methods on Module and never mutates it.
package sem
