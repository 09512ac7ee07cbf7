package ast

import (
	"wgslfront/internal/source"
)

// Enable is `enable f16, chromium_experimental_dp4a;`.
type Enable struct {
	Node       NodeID
	Span       source.Span
	Extensions []Ident
}

// Requires is `requires readonly_and_readwrite_storage_textures;`.
type Requires struct {
	Node     NodeID
	Span     source.Span
	Features []Ident
}

// DiagnosticDirective is module-scope `diagnostic(off, derivative_uniformity);`.
type DiagnosticDirective struct {
	Node    NodeID
	Span    source.Span
	Control DiagnosticControl
}
