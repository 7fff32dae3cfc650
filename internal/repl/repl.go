package repl

import (
	"bufio"
	"fmt"
	"io"

	"vex/internal/interp"
	"vex/internal/util"
	"vex/internal/value"
)

const PROMPT = "> "

// Start runs the read-evaluate-print loop until in is exhausted. Invisible
// results are swallowed; script errors show the offending source line.
func Start(in io.Reader, out io.Writer, interpreter *interp.Interpreter) {
	interpreter.SetOutput(out)
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		v, err := interpreter.EvaluateScript(line)
		if err != nil {
			printError(out, line, err)
			continue
		}
		if trace := interpreter.Trace(); trace != "" {
			io.WriteString(out, trace)
		}
		if !value.IsInvisible(v) {
			fmt.Fprintln(out, v)
		}
	}
}

func printError(out io.Writer, src string, err error) {
	if se, ok := err.(*value.ScriptError); ok {
		line, col := util.GetLineAndColumn(src, se.Pos)
		fmt.Fprintf(out, "error (line %d, col %d): %s\n", line, col, se.Msg)
		if ctx := util.FormatErrorContext(src, se.Pos); ctx != "" {
			io.WriteString(out, ctx)
		}
		return
	}
	fmt.Fprintf(out, "error: %s\n", err)
}
