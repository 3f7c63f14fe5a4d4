package convert

import (
	"context"
	"fmt"

	"tra-converter/internal/filewalker"
	"tra-converter/internal/parser"
	"tra-converter/internal/worker"
)

// Direction selects which way a batch converts.
type Direction int

const (
	// Forward converts indexed-text pairs to a bilingual format.
	Forward Direction = iota
	// Backward converts completed bilingual files to indexed text.
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Discover lists the files a batch in direction d would convert: the
// source-language files going forward, the finished bilingual files going
// backward. Each bilingual file carries the codec bound to it by extension.
func (c *Converter) Discover(d Direction, codec parser.Codec) ([]filewalker.FileEntry, error) {
	w := filewalker.NewWalker()
	if d == Backward {
		return w.Walk(c.cfg.FinishedDir(codec.Format()), codec.Ext())
	}
	return w.Walk(c.cfg.SourceDir(), filewalker.TRAExt)
}

// Batch converts every discovered file with up to workers concurrent
// conversions. Files are independent: a failure is kept on its task and the
// others carry on.
func (c *Converter) Batch(ctx context.Context, d Direction, codec parser.Codec, workers int) ([]worker.Task[filewalker.FileEntry, *Result], error) {
	files, err := c.Discover(d, codec)
	if err != nil {
		return nil, fmt.Errorf("discover %s files: %w", d, err)
	}

	c.logger.Info().
		Str("direction", d.String()).
		Str("format", codec.Format()).
		Int("files", len(files)).
		Int("workers", workers).
		Msg("Starting batch conversion")

	pool := worker.NewPool(workers, func(_ context.Context, f filewalker.FileEntry) (*Result, error) {
		if d == Backward {
			return c.FromBilingual(f.Base, f.Codec)
		}
		return c.ToBilingual(f.Base, codec)
	})
	return pool.Execute(ctx, files), nil
}
