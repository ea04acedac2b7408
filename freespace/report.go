package freespace

import (
	"fmt"
	"io"

	"github.com/Sukhavati-Labs/go-sysutil/space"
	"github.com/Sukhavati-Labs/go-sysutil/sparse"
	"github.com/c2h5oh/datasize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	Prompt     = "Enter file length in bytes (0 to quit): "
	Separator  = "----------------------------------------"
	EndMessage = "End of FreeSpace demonstration"

	LabelBefore   = "Before file creation"
	LabelCreated  = "After file creation"
	LabelExtended = "After setting file length"
	LabelWritten  = "After writing to middle"
)

func stageLabel(s sparse.Stage) string {
	switch s {
	case sparse.StageCreated:
		return LabelCreated
	case sparse.StageExtended:
		return LabelExtended
	case sparse.StageWritten:
		return LabelWritten
	default:
		return s.String()
	}
}

// reporter renders the console report. Byte counts are digit grouped.
type reporter struct {
	w       io.Writer
	printer *message.Printer
}

func newReporter(w io.Writer) *reporter {
	return &reporter{
		w:       w,
		printer: message.NewPrinter(language.English),
	}
}

func (r *reporter) prompt() {
	fmt.Fprint(r.w, Prompt)
}

func (r *reporter) requested(length int64) {
	r.printer.Fprintf(r.w, "\nRequested file size: %20d bytes\n", length)
}

func (r *reporter) invalid(input string, err error) {
	fmt.Fprintf(r.w, "Invalid file length %q: %v\n", input, err)
}

// status prints one volume report. allocated < 0 omits the file line.
func (r *reporter) status(label string, s space.Snapshot, allocated int64) {
	fmt.Fprintf(r.w, "\n%25s status:\n", label)
	fmt.Fprintf(r.w, "  Total disk space:   %12.2f GB\n", space.ToGB(s.Total))
	fmt.Fprintf(r.w, "  Actual free space:  %12.2f GB\n", space.ToGB(s.Free))
	fmt.Fprintf(r.w, "  Available to user:  %12.2f GB\n", space.ToGB(s.Available))
	if allocated >= 0 {
		r.printer.Fprintf(r.w, "  File allocation:    %20d bytes (%s)\n",
			allocated, datasize.ByteSize(allocated).HumanReadable())
	}
}

func (r *reporter) separator() {
	fmt.Fprintf(r.w, "\n%s\n", Separator)
}

func (r *reporter) end() {
	fmt.Fprintf(r.w, "\n%s\n", EndMessage)
}
