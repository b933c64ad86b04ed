package render

import (
	"bytes"
	"io"

	"github.com/sourcegraph/go-diff/diff"

	"structdiff/internal/linediff"
)

// WriteUnified prints a line-diff result in unified format.
func WriteUnified(w io.Writer, result linediff.Result) error {
	if len(result.Hunks) == 0 {
		return nil
	}

	fileDiff := &diff.FileDiff{
		OrigName: result.OldPath,
		NewName:  result.NewPath,
		Hunks:    make([]*diff.Hunk, 0, len(result.Hunks)),
	}

	for _, h := range result.Hunks {
		var body bytes.Buffer
		for _, line := range h.Lines {
			body.WriteByte(byte(line.Op))
			body.WriteString(line.Text)
			body.WriteByte('\n')
		}
		fileDiff.Hunks = append(fileDiff.Hunks, &diff.Hunk{
			OrigStartLine: int32(h.OldStart),
			OrigLines:     int32(h.OldLines),
			NewStartLine:  int32(h.NewStart),
			NewLines:      int32(h.NewLines),
			Body:          body.Bytes(),
		})
	}

	printed, err := diff.PrintFileDiff(fileDiff)
	if err != nil {
		return err
	}
	_, err = w.Write(printed)
	return err
}
