package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"slices"

	"wgslfront/internal/builtin"
)

// Digest is a SHA-256 value; file contents are hashed on load.
type Digest [32]byte

// combineDigest: H(content || dep1 || dep2 ...). deps уже в детерминированном порядке.
func combineDigest(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// optionsDigest covers every option that can change the diagnostics of a file,
// plus the tool version so that upgrades invalidate the cache.
func optionsDigest(opts Options, toolVersion string) Digest {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:4], uint32(opts.Extensions))
	binary.LittleEndian.PutUint32(buf[4:], uint32(opts.MaxErrors)) //nolint:gosec // only hashed
	_, _ = h.Write(buf[:])
	if opts.NoDialectHints {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
	rules := make([]int, 0, len(opts.RuleSeverity))
	for r := range opts.RuleSeverity {
		rules = append(rules, int(r))
	}
	slices.Sort(rules)
	for _, r := range rules {
		_, _ = h.Write([]byte{byte(r), byte(opts.RuleSeverity[builtin.DiagnosticRule(r)])})
	}
	_, _ = h.Write([]byte(toolVersion))
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// CacheKey identifies the diagnostics of one file content under one set of options.
func CacheKey(content [32]byte, opts Options, toolVersion string) Digest {
	return combineDigest(Digest(content), optionsDigest(opts, toolVersion))
}
