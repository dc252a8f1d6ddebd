package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"hashalign/internal/diag"
	"hashalign/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	codeColor    = color.New(color.Bold)
	noteColor    = color.New(color.FgBlue)
	fixColor     = color.New(color.FgGreen)
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	restore := color.NoColor
	color.NoColor = !opts.Color
	defer func() { color.NoColor = restore }()

	for _, d := range bag.Items() {
		printHeader(w, fs, d, opts)
		printContext(w, fs, d.Primary, severityPainter(d.Severity))

		if opts.ShowNotes {
			for _, note := range d.Notes {
				fmt.Fprintf(w, "  %s %s\n", noteColor.Sprint("note:"), note.Msg)
				if !note.Span.Empty() {
					printContext(w, fs, note.Span, noteColor)
				}
			}
		}
		if opts.ShowFixes {
			for _, fx := range d.Fixes {
				marker := ""
				if fx.IsPreferred {
					marker = " (preferred)"
				}
				fmt.Fprintf(w, "  %s %s [%s]%s\n", fixColor.Sprint("fix:"), fx.Title, fx.ID, marker)
			}
		}
	}
}

func printHeader(w io.Writer, fs *source.FileSet, d diag.Diagnostic, opts PrettyOpts) {
	f := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)

	painter := severityPainter(d.Severity)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		formatPath(f, fs, opts.PathMode),
		start.Line, start.Col,
		painter.Sprint(d.Severity.String()),
		codeColor.Sprint(d.Code.ID()),
		d.Message,
	)
}

// printContext prints the source line of the span start with a gutter and a
// ^~~~ underline. The underline accounts for display width of the
// underlined text, not its byte length.
func printContext(w io.Writer, fs *source.FileSet, span source.Span, painter *color.Color) {
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)

	line := f.GetLine(start.Line)
	if line == "" && span.Empty() {
		return
	}

	gutter := fmt.Sprintf("%5d | ", start.Line)
	fmt.Fprintf(w, "%s%s\n", gutter, strings.ReplaceAll(line, "\t", " "))

	// Колонки 1-based; выравниваем пробелами по ширине префикса
	startCol := int(start.Col) - 1
	if startCol < 0 || startCol > len(line) {
		startCol = 0
	}
	pad := runewidth.StringWidth(line[:startCol])

	underlined := 1
	if start.Line == end.Line && int(end.Col) > int(start.Col) {
		endCol := int(end.Col) - 1
		if endCol > len(line) {
			endCol = len(line)
		}
		underlined = runewidth.StringWidth(line[startCol:endCol])
	}
	if underlined < 1 {
		underlined = 1
	}

	marker := "^" + strings.Repeat("~", underlined-1)
	fmt.Fprintf(w, "%s%s%s\n",
		strings.Repeat(" ", len(gutter)),
		strings.Repeat(" ", pad),
		painter.Sprint(marker),
	)
}

func severityPainter(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", fs.BaseDir())
	}
}
