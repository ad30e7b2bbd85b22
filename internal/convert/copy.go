package convert

import (
	"context"
	"fmt"
	"io"
	"os"
)

// copyBufSize is the chunk size for cancellable copies.
const copyBufSize = 1 << 20

// copyFile copies src to dst, truncating any existing file. The overwrite
// decision was already made at plan time. The copy checks ctx between
// chunks so a long copy stops soon after cancellation. A partial
// destination left behind by any failure is removed.
func copyFile(ctx context.Context, src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer func() { _ = dstFile.Close() }()

	buf := make([]byte, copyBufSize)
	for {
		if err := ctx.Err(); err != nil {
			_ = os.Remove(dst)
			return err
		}
		n, rerr := srcFile.Read(buf)
		if n > 0 {
			if _, werr := dstFile.Write(buf[:n]); werr != nil {
				_ = os.Remove(dst)
				return fmt.Errorf("copy content: %w", werr)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			_ = os.Remove(dst)
			return fmt.Errorf("copy content: %w", rerr)
		}
	}

	if err := dstFile.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}
