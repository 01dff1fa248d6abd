package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/term"

	"github.com/n2code/docspace"
	"github.com/n2code/docspace/internal/output"
)

func PromptUser(allowEscapeSequences bool) docspace.RequestChoice {
	return func(request string, options []string, cleanup bool) (choice string) {
		letterToChoice, displayOptions := letterOptions(options, allowEscapeSequences)

		key := make(chan rune)
		interrupt := make(chan os.Signal, 1)

		signal.Notify(interrupt, os.Interrupt)
		defer func() { signal.Reset(os.Interrupt) }()

		rawMode := false
		out := func(text string) {
			fmt.Fprint(os.Stdout, text)
		}
		rawOut := func(text string) {
			if rawMode {
				fmt.Fprint(os.Stdout, text)
			}
		}

		if allowEscapeSequences {
			if oldTermState, err := term.MakeRaw(int(os.Stdin.Fd())); err == nil {
				rawMode = true
				defer term.Restore(int(os.Stdin.Fd()), oldTermState)
			} // else terminal is not raw, i.e. ENTER is required to confirm input -> acceptable fallback
		}
		waitForKey := func() {
			reader := bufio.NewReaderSize(os.Stdin, 1)
			input, _ := reader.ReadByte()
			if !rawMode && reader.Buffered() > 0 {
				if extra, _ := reader.ReadByte(); extra != '\n' && extra != '\r' {
					key <- '?'
					reader.Reset(os.Stdin)
					return
				}
			}
			reader.Reset(os.Stdin)
			if rawMode && input == 3 { //Ctrl+C
				interrupt <- os.Interrupt
			} else {
				rawOut(fmt.Sprintf("%c", unicode.ToUpper(rune(input))))
				key <- rune(input)
			}
		}

		prompt := fmt.Sprintf("%s (%s): ", request, strings.Join(displayOptions, " / "))
		out(prompt)
		for {
			go waitForKey()
			select {
			case letterPressed := <-key:
				if selection, found := letterToChoice[letterPressed]; found {
					if cleanup {
						rawOut("\033[2K\r") //clear line
					} else {
						rawOut("\r\n")
					}
					return selection
				}
				rawOut("\a\033[1D") //bell and move cursor left by 1
				if !rawMode {
					out(prompt)
				}
			case <-interrupt:
				out("<CANCELLED>\r\n")
				return docspace.ChoiceAborted
			}
		}
	}
}

// letterOptions assigns each option the first letter not yet taken by a previous one.
func letterOptions(options []string, allowEscapeSequences bool) (letterToChoice map[rune]string, displayOptions []string) {
	letterToChoice = make(map[rune]string)
ParseOptions:
	for _, option := range options {
		for i, letter := range option {
			if _, taken := letterToChoice[letter]; !taken {
				letterToChoice[unicode.ToUpper(letter)] = option
				letterToChoice[unicode.ToLower(letter)] = option
				printLetter := fmt.Sprintf("\x1B[1m\x1B[4m%c\x1B[0m", letter)
				if !allowEscapeSequences {
					printLetter = fmt.Sprintf("[%c]", letter)
				}
				displayOptions = append(displayOptions, fmt.Sprintf("%s%s%s", option[:i], printLetter, option[i+1:]))
				continue ParseOptions
			}
		}
	}
	return
}

// LineChoice asks for a choice on a line of its own, for input that is not a terminal.
// End of input aborts the choice.
func LineChoice(in *bufio.Reader, out io.Writer) docspace.RequestChoice {
	return func(request string, options []string, cleanup bool) string {
		letterToChoice, displayOptions := letterOptions(options, false)
		for {
			fmt.Fprintf(out, "%s (%s): ", request, strings.Join(displayOptions, " / "))
			line, err := in.ReadString('\n')
			line = strings.TrimSpace(line)
			if runes := []rune(line); len(runes) == 1 {
				if selection, found := letterToChoice[runes[0]]; found {
					return selection
				}
			}
			for _, option := range options {
				if strings.EqualFold(line, option) {
					return option
				}
			}
			if err != nil {
				fmt.Fprintln(out, "<CANCELLED>")
				return docspace.ChoiceAborted
			}
		}
	}
}

const (
	choiceDiscard = "discard"
	choiceKeep    = "keep"
)

// terminalPrompter serves the path and confirmation requests of the workspace on the command line.
type terminalPrompter struct {
	in     *bufio.Reader
	out    io.Writer
	choose docspace.RequestChoice
	wd     func() (string, error)
}

func newTerminalPrompter(stdin io.Reader, out io.Writer, fancy bool) *terminalPrompter {
	p := &terminalPrompter{
		in:  bufio.NewReader(stdin),
		out: out,
		wd:  os.Getwd,
	}
	if fancy && stdin == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		p.choose = PromptUser(true)
	} else {
		p.choose = LineChoice(p.in, out)
	}
	return p
}

// readLine returns the next input line without its terminator. io.EOF is only reported if nothing was read.
func (p *terminalPrompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *terminalPrompter) askPath(ctx context.Context, question string) (string, bool, error) {
	fmt.Fprintf(p.out, "%s (empty line cancels): ", question)
	line, err := p.readLine(ctx)
	if errors.Is(err, io.EOF) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false, nil
	}
	return line, true, nil
}

func (p *terminalPrompter) SelectOpenPath(ctx context.Context) (string, bool, error) {
	return p.askPath(ctx, "File to open")
}

func (p *terminalPrompter) SelectOpenFolder(ctx context.Context) (string, bool, error) {
	return p.askPath(ctx, "Folder to open")
}

// SelectSavePath accepts the suggestion inside the working directory on an empty line, "-" cancels.
func (p *terminalPrompter) SelectSavePath(ctx context.Context, suggestedName string) (string, bool, error) {
	wd, err := p.wd()
	if err != nil {
		return "", false, err
	}
	suggestion := filepath.Join(wd, suggestedName)
	fmt.Fprintf(p.out, "Save as [%s] (\"-\" cancels): ", suggestion)
	line, err := p.readLine(ctx)
	if errors.Is(err, io.EOF) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	switch line = strings.TrimSpace(line); line {
	case "-":
		return "", false, nil
	case "":
		return suggestion, true, nil
	}
	if !filepath.IsAbs(line) {
		line = filepath.Join(wd, line)
	}
	return line, true, nil
}

func (p *terminalPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return p.choose(question, []string{choiceDiscard, choiceKeep}, false) == choiceDiscard, nil
}

// eventPrinter reports workspace events on the terminal.
type eventPrinter struct {
	printer output.Printer
}

func (e *eventPrinter) DocumentLoaded(data docspace.FileData) {
	e.printer.Out(output.Verbose, "loaded #%s %s\n", data.Id, e.printer.Dim(fmt.Sprintf("(version %d, %s)", data.Version, output.Filesize(int64(len(data.Content))))))
}

func (e *eventPrinter) ImageShown(data docspace.ImageData) {
	if data.Picture == nil {
		e.printer.Out(output.Normal, "%s: %s\n", data.Label(), data.Name)
		return
	}
	e.printer.Out(output.Normal, "%s: %s (%dx%d)\n", data.Label(), data.Name, data.Picture.Width, data.Picture.Height)
}

func (e *eventPrinter) ImagesLoaded(images []docspace.ImageData) {
	for _, image := range images {
		e.ImageShown(image)
	}
}

func (e *eventPrinter) SaveCompleted(result docspace.SaveResult) {
	switch {
	case errors.Is(result.Err, docspace.PathSelectionAborted):
		e.printer.Out(output.Normal, "%s of #%s cancelled\n", result.Trigger, result.Id)
	case result.Err != nil:
		e.printer.Out(output.Error, "%s of #%s failed: %s\n", result.Trigger, result.Id, result.Err)
	case result.Buffered:
		e.printer.Out(output.Verbose, "%s of #%s kept in memory %s\n", result.Trigger, result.Id, e.printer.Dim(fmt.Sprintf("(version %d)", result.Version)))
	default:
		e.printer.Out(output.Normal, "%s of #%s written to %s (version %d)\n", result.Trigger, result.Id, result.Path, result.Version)
	}
}
