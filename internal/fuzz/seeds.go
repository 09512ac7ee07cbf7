package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB
	maxFuzzInput = 1 << 16
)

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addEdgeSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata", "shaders")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".wgsl" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func addEdgeSeeds(f *testing.F) {
	for _, s := range []string{
		"",
		"fn main() {}\n",
		// цикл
		"const a = b; const b = a;",
		// рекурсия
		"fn f() { f(); }",
		// вложенность
		"alias T = array<array<array<f32, 2>, 2>, 2>;",
		// переполнение
		"const x = i32(0x7fffffff) + 1;",
		"fn f() -> i32 { loop { continuing { break if true; } } }",
		"var<private> p : ptr<function, i32>;",
		"diagnostic(off, derivative_uniformity); enable f16; const h = 1h;",
		"@compute @workgroup_size(0) fn m() {}",
		"fn f() { let v = vec4(1).xyrg; }",
		"struct S { a : S }",
	} {
		f.Add([]byte(s))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
