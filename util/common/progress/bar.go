package progress

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/appfetch/appfetch-cli/util/common"
)

// BarWriter feeds every written byte count into a pterm progress bar.
type BarWriter struct {
	bar *pterm.ProgressbarPrinter
}

func (w *BarWriter) Write(p []byte) (int, error) {
	n := len(p)
	w.bar.Add(n)
	return n, nil
}

// Writer wraps dst so a transfer into it drives a progress bar titled
// with the file name and size. The returned func stops the bar and
// must be called after the transfer settles.
func Writer(contentLength int64, dst io.Writer, fileName string) (io.Writer, func()) {
	title := fileName
	if contentLength > 0 {
		title = fmt.Sprintf("%s (%s)", fileName, common.GetSize(contentLength))
	}
	bar := pterm.DefaultProgressbar.
		WithTitle(title).
		WithRemoveWhenDone(false)

	if contentLength > 0 {
		bar = bar.WithTotal(int(contentLength))
	}

	pb, _ := bar.Start()

	return io.MultiWriter(dst, &BarWriter{pb}), func() { _, _ = pb.Stop() }
}
