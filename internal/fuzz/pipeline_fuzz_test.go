package fuzztests

import (
	"context"
	"testing"
	"time"

	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/driver"
	"wgslfront/internal/source"
)

// checkTimeout bounds one input; anything slower is treated as a hang.
const checkTimeout = 5 * time.Second

func checkBytes(ctx context.Context, input []byte, opts driver.Options) *driver.Result {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("fuzz.wgsl", input)
	return driver.CheckLoaded(ctx, fs.Get(fileID), opts)
}

// FuzzCheckNoICE runs the full pipeline and fails on internal compiler errors.
func FuzzCheckNoICE(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		res := checkBytes(context.Background(), input, driver.Options{
			Extensions:     builtin.Extensions(0).With(builtin.ExtF16),
			MaxErrors:      64,
			MaxDiagnostics: 256,
		})
		for _, d := range res.Bag.Items() {
			if d.Code == diag.IOInternal {
				t.Fatalf("internal compiler error: %s\ninput: %q", d.Message, truncateForLog(input, 200))
			}
		}
		if res.OK() == res.Bag.HasErrors() {
			t.Fatalf("OK() disagrees with the bag")
		}
	})
}

// FuzzCheckNoHang fails when the pipeline does not finish within checkTimeout.
func FuzzCheckNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("fn f() { if a { } else if b { } else if c { } else { } }"))
	f.Add([]byte("fn f() { switch x { case 1, 2, default { } } }"))
	f.Add([]byte("fn f() { for (var i = 0 i < 10 i++) {} }"))
	f.Add([]byte("fn f() { a<b<c<d<e>>>>(); }"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = checkBytes(ctx, input, driver.Options{MaxErrors: 128})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("check hang: took longer than %v\ninput (%d bytes): %q",
				checkTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
