package output

import "fmt"

const resetFormat = "\x1B[0m"

func TerminalFormatAsDim(text string) string {
	return fmt.Sprintf("\x1B[2m%s%s", text, resetFormat)
}

func TerminalFormatAsBold(text string) string {
	return fmt.Sprintf("\x1B[1m%s%s", text, resetFormat)
}

func TerminalFormatAsError(text string) string {
	return fmt.Sprintf("\x1B[31m%s%s", text, resetFormat)
}
