package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/n2code/docspace"
	"github.com/n2code/docspace/cmd/docspace/flags"
	"github.com/n2code/docspace/internal/config"
	"github.com/n2code/docspace/internal/logging"
	"github.com/n2code/docspace/internal/metrics"
	"github.com/n2code/docspace/internal/output"
	"golang.org/x/term"
)

type CliRequest struct {
	verbose     bool
	quiet       bool
	plain       bool
	action      string
	actionFlags map[string]interface{}
	actionArgs  []string
}

func parseFlags(args []string, out io.Writer, errOut io.Writer) (request *CliRequest, exitCode int) {
	flagSet := flag.NewFlagSet("", flag.ContinueOnError)
	flagSet.SetOutput(errOut)
	flagSet.Usage = func() {
		flagSet.Output().Write([]byte(`
Usage:
   docspace [-v|-q] [-p] [-h] <ACTION> [FLAG] [TARGET]

 ACTIONs:  tree  images  edit

`))
		flagSet.PrintDefaults()
		flagSet.Output().Write([]byte(`
 FLAG(s) and TARGET(s) are action-specific.
 You can read the help on any action:
    docspace <ACTION> -h

 Settings are also read from the environment and a .env file:
    DOCSPACE_AUTOSAVE, DOCSPACE_AUTOSAVE_DELAY, DOCSPACE_LOG_LEVEL,
    DOCSPACE_LOG_FORMAT, DOCSPACE_LOG_OUTPUT, DOCSPACE_METRICS_ADDR

`))
	}

	request = &CliRequest{}
	var generalHelpRequested bool
	flagSet.BoolVar(&request.verbose, flags.Verbose, false, "Output more details on what is done (verbose mode)")
	flagSet.BoolVar(&request.quiet, flags.Quiet, false, "Output as little as possible, i.e. only requested information (quiet mode)")
	flagSet.BoolVar(&request.plain, flags.Plain, false, "Do not use terminal escape sequences (plain output)")
	flagSet.BoolVar(&generalHelpRequested, flags.Help, false, "Display general usage help")

	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(errOut, "%s\nUsage help: docspace -h\n", err)
			exitCode = 2
			request = nil
		}
	}()

	if err = flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			err = nil
			request = nil
		}
		return
	}

	if generalHelpRequested {
		flagSet.SetOutput(out)
		flagSet.Usage()
		request = nil
		return
	}
	if flagSet.NArg() == 0 {
		err = errors.New("No arguments given!")
		return
	}
	if request.verbose && request.quiet {
		err = errors.New("Quiet mode and verbose mode are mutually exclusive!")
		return
	}

	request.action = flagSet.Arg(0)
	request.actionFlags = make(map[string]interface{})
	request.actionArgs = flagSet.Args()[1:]
	actionDescriptionIndent := "  "
	actionDescription := actionDescriptionIndent
	flagSpecification := ""
	argumentSpecification := ""

	actionParams := flag.NewFlagSet(request.action+" action", flag.ContinueOnError)
	actionParams.SetOutput(errOut)
	actionParams.Usage = func() {
		fmt.Fprintf(actionParams.Output(), `
Usage of %s action:
   docspace [MODE] %s%s%s

%s
`, request.action, request.action, flagSpecification, argumentSpecification, actionDescription)
		if len(flagSpecification) > 0 {
			fmt.Fprint(actionParams.Output(), `
 Available flags:
`)
		}
		actionParams.PrintDefaults()
		fmt.Fprintf(actionParams.Output(), `
 Global MODE documentation can be shown by:
    docspace -h

`)
	}

	parseActionParams := func() bool {
		if parseErr := actionParams.Parse(request.actionArgs); parseErr != nil {
			if !errors.Is(parseErr, flag.ErrHelp) {
				err = parseErr
			}
			request = nil
			return false
		}
		request.actionArgs = actionParams.Args()
		return true
	}

	switch request.action {
	case "tree":
		flagSpecification = " [-all]"
		argumentSpecification = " DIRECTORY..."
		actionDescription += "Display the markdown documents below the given DIRECTORY(s) as a tree.\n" +
			actionDescriptionIndent + "Nested folders are collapsed unless requested otherwise."
		request.actionFlags[flags.TreeIncludingCollapsed] = actionParams.Bool(flags.TreeIncludingCollapsed, false, "show content of collapsed folders, too")
		if !parseActionParams() {
			return
		}
		if len(request.actionArgs) == 0 {
			err = errors.New("no directories given")
		}
	case "images":
		argumentSpecification = " DIRECTORY"
		actionDescription += "Decode all images below DIRECTORY and list them in display order."
		if !parseActionParams() {
			return
		}
		if len(request.actionArgs) != 1 {
			err = errors.New("bad number of arguments, exactly one expected")
		}
	case "edit":
		flagSpecification = " [-autosave] [-delay=DURATION] [-metrics=ADDRESS] [-new=NAME]"
		argumentSpecification = " [DIRECTORY...]"
		actionDescription += "Start an interactive editing session on the given DIRECTORY(s).\n" +
			actionDescriptionIndent + "Type \"help\" inside the session to list the available commands."
		request.actionFlags[flags.EditWithAutoSave] = actionParams.Bool(flags.EditWithAutoSave, false, "save changes automatically after a pause in editing")
		request.actionFlags[flags.EditAutoSaveDelay] = actionParams.Duration(flags.EditAutoSaveDelay, 0, "pause after the last edit before autosaving (default 2s)")
		request.actionFlags[flags.EditMetricsAddress] = actionParams.String(flags.EditMetricsAddress, "", "serve Prometheus metrics on this address, e.g. :9090")
		request.actionFlags[flags.EditNewDocument] = actionParams.String(flags.EditNewDocument, "", "start with a new temporary document of this name")
		if !parseActionParams() {
			return
		}
		if delay := *(request.actionFlags[flags.EditAutoSaveDelay].(*time.Duration)); delay < 0 {
			err = errors.New("delay must not be negative")
		}
	default:
		err = fmt.Errorf(`unknown action "%s"`, request.action)
	}
	return
}

func (rq *CliRequest) execute(ctx context.Context, stdin io.Reader, out io.Writer) error {
	settings, err := config.Load(".env")
	if err != nil {
		return err
	}
	logConfig := logging.Config{Level: settings.LogLevel, Format: settings.LogFormat, OutputPath: settings.LogOutput}
	if err := logging.Init(logConfig); err != nil {
		return fmt.Errorf("logging setup failed: %w", err)
	}
	defer logging.Sync()
	if rq.verbose {
		logging.SetLevel("debug")
	}

	fancy := !rq.plain && term.IsTerminal(int(os.Stdout.Fd()))
	wsConfig := docspace.CreateConfig{
		AutoSave:      settings.AutoSave,
		AutoSaveDelay: settings.AutoSaveDelay,
		FancyTerminal: fancy,
	}
	classes := []output.Class{output.Required, output.Error, output.Normal}
	if rq.verbose {
		wsConfig.Verbosity = docspace.VerboseMode
		classes = append(classes, output.Verbose)
	}
	if rq.quiet {
		wsConfig.Verbosity = docspace.QuietMode
		classes = []output.Class{output.Required, output.Error}
	}
	printer := output.NewPrinterTo(classes, fancy, out, os.Stderr)
	prompter := newTerminalPrompter(stdin, out, fancy)

	switch rq.action {
	case "tree":
		ws := docspace.New(wsConfig, prompter, nil)
		defer ws.Close()
		for _, dir := range rq.actionArgs {
			if _, err := ws.OpenFolder(ctx, dir); err != nil {
				return err
			}
		}
		return ws.PrintTree(docspace.MissingId, *(rq.actionFlags[flags.TreeIncludingCollapsed].(*bool)))
	case "images":
		listener := &eventPrinter{printer: printer}
		ws := docspace.New(wsConfig, prompter, listener)
		defer ws.Close()
		ids, err := ws.ImportImages(ctx, rq.actionArgs[0])
		if err != nil {
			return err
		}
		printer.Out(output.Normal, "%d %s imported\n", len(ids), output.Plural(ids, "image", "images"))
	case "edit":
		if *(rq.actionFlags[flags.EditWithAutoSave].(*bool)) {
			wsConfig.AutoSave = true
		}
		if delay := *(rq.actionFlags[flags.EditAutoSaveDelay].(*time.Duration)); delay > 0 {
			wsConfig.AutoSaveDelay = delay
		}
		metricsAddr := settings.MetricsAddr
		if addr := *(rq.actionFlags[flags.EditMetricsAddress].(*string)); addr != "" {
			metricsAddr = addr
		}
		if metricsAddr != "" {
			serveMetrics(metricsAddr)
		}

		listener := &eventPrinter{printer: printer}
		ws := docspace.New(wsConfig, prompter, listener)
		defer ws.Close()
		for _, dir := range rq.actionArgs {
			if _, err := ws.OpenFolder(ctx, dir); err != nil {
				return err
			}
		}
		if name := *(rq.actionFlags[flags.EditNewDocument].(*string)); name != "" {
			if _, err := ws.NewDocument(ctx, name); err != nil {
				return err
			}
		}
		s := &session{ws: ws, prompter: prompter, printer: printer}
		return s.run(ctx)
	default:
		panic("bad action")
	}
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	go func() {
		logging.S().Infof("serving metrics on http://%s/metrics", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logging.L().Error("metrics endpoint failed", zap.String("addr", addr), logging.Err(err))
		}
	}()
}

func main() {
	rq, rc := parseFlags(os.Args[1:], os.Stdout, os.Stderr)
	if rc != 0 || rq == nil {
		os.Exit(rc)
	}
	if err := rq.execute(context.Background(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, output.TerminalFormatAsError(err.Error()))
		os.Exit(1)
	}
	os.Exit(0)
}
