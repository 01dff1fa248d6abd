package output

import (
	"fmt"
	"io"
	"os"
)

type Class int

const (
	Required Class = iota
	Error
	Normal
	Verbose
)

type Printer struct {
	classes    map[Class]bool
	terminal   io.Writer
	diagnosis  io.Writer
	useEscapes bool
}

func NewPrinter(include []Class, allowEscapes bool) (p Printer) {
	return NewPrinterTo(include, allowEscapes, os.Stdout, os.Stderr)
}

// NewPrinterTo is NewPrinter with explicit destinations for regular and error output.
func NewPrinterTo(include []Class, allowEscapes bool, terminal io.Writer, diagnosis io.Writer) (p Printer) {
	p = Printer{
		classes:    map[Class]bool{},
		terminal:   terminal,
		diagnosis:  diagnosis,
		useEscapes: allowEscapes,
	}
	for _, class := range include {
		p.classes[class] = true
	}
	return
}

func (p Printer) Out(class Class, format string, values ...interface{}) {
	if !p.classes[class] {
		return
	}
	target := p.terminal
	text := fmt.Sprintf(format, values...)
	if class == Error {
		target = p.diagnosis
		if p.useEscapes {
			text = TerminalFormatAsError(text)
		}
	}
	fmt.Fprint(target, text)
}

// Dim de-emphasizes text if escape sequences are allowed.
func (p Printer) Dim(text string) string {
	if p.useEscapes {
		return TerminalFormatAsDim(text)
	}
	return text
}
