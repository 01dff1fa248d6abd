package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/n2code/docspace"
	"github.com/n2code/docspace/internal/output"
)

const sessionHelp = `Commands:
  ls [-a]            show the workspace tree (-a includes collapsed folders)
  open ID            select a node: fold a folder, load a document, or show an image
  new [NAME]         create a temporary document
  import PATH        add a single document or image
  images DIR         import all images below DIR
  folder DIR         open DIR as another workspace root
  show               print the active document
  write TEXT         replace the active document's content
  append TEXT        add a line to the active document
  save               save the active document
  saveas             save the active document under a new path
  autosave on|off    toggle autosaving
  discard            drop unsaved changes of the active document
  status             summarize the workspace
  help               show this help
  quit               end the session
`

var errQuit = errors.New("quit")

type session struct {
	ws       docspace.Workspace
	prompter *terminalPrompter
	printer  output.Printer
}

func (s *session) run(ctx context.Context) error {
	s.printer.Out(output.Normal, "Type \"help\" for a list of commands.\n")
	for {
		s.printer.Out(output.Required, "> ")
		line, err := s.prompter.readLine(ctx)
		if errors.Is(err, io.EOF) {
			s.printer.Out(output.Required, "\n")
			return s.leave()
		} else if err != nil {
			return err
		}
		if err := s.dispatch(ctx, line); errors.Is(err, errQuit) {
			return s.leave()
		} else if err != nil {
			s.printer.Out(output.Error, "%s\n", err)
		}
	}
}

// leave lets pending autosaves finish and warns about anything left unsaved.
func (s *session) leave() error {
	s.ws.Wait()
	var unsaved []docspace.Id
	roots := s.ws.Roots()
	s.ws.View(func(tree *docspace.Tree) {
		for _, root := range roots {
			for v := range tree.Traverse(root) {
				if doc, isDoc := v.Node.Content.(*docspace.Document); isDoc && doc.Dirty() {
					unsaved = append(unsaved, v.Node.Id)
				}
			}
		}
	})
	if len(unsaved) > 0 {
		s.printer.Out(output.Error, "%d %s left with unsaved changes\n", len(unsaved), output.Plural(unsaved, "document", "documents"))
	}
	return nil
}

func (s *session) dispatch(ctx context.Context, line string) error {
	command, argument, _ := strings.Cut(strings.TrimSpace(line), " ")
	argument = strings.TrimSpace(argument)
	switch command {
	case "":
		return nil
	case "help":
		s.printer.Out(output.Required, sessionHelp)
	case "quit", "exit":
		return errQuit
	case "ls":
		return s.ws.PrintTree(docspace.MissingId, argument == "-a")
	case "status":
		s.ws.PrintStatus()
	case "open":
		id, err := docspace.ParseId(argument)
		if err != nil {
			return fmt.Errorf("bad node ID %q", argument)
		}
		err = s.ws.Select(ctx, id)
		var cmdErr *docspace.CommandError
		if errors.As(err, &cmdErr) {
			if kind, _ := cmdErr.Kind(); kind == docspace.LoadDeclined {
				return fmt.Errorf("%w (save or discard #%s first)", err, s.ws.Active())
			}
		}
		return err
	case "new":
		id, err := s.ws.NewDocument(ctx, argument)
		if err != nil {
			return err
		}
		s.printer.Out(output.Normal, "created #%s\n", id)
	case "import":
		if argument == "" {
			_, err := s.ws.OpenFileDialog(ctx)
			return err
		}
		_, err := s.ws.ImportFile(ctx, argument)
		return err
	case "images":
		var ids []docspace.Id
		var err error
		if argument == "" {
			ids, err = s.ws.ImportImagesDialog(ctx)
		} else {
			ids, err = s.ws.ImportImages(ctx, argument)
		}
		if err != nil {
			return err
		}
		s.printer.Out(output.Normal, "%d %s imported\n", len(ids), output.Plural(ids, "image", "images"))
	case "folder":
		var id docspace.Id
		var err error
		if argument == "" {
			id, err = s.ws.OpenFolderDialog(ctx)
		} else {
			id, err = s.ws.OpenFolder(ctx, argument)
		}
		if err != nil || id == docspace.MissingId {
			return err
		}
		s.printer.Out(output.Normal, "opened #%s\n", id)
	case "show":
		data, err := s.ws.Current()
		if err != nil {
			return err
		}
		s.printer.Out(output.Required, "%s\n", data.Content)
	case "write":
		_, err := s.ws.Edit(argument)
		return err
	case "append":
		data, err := s.ws.Current()
		if err != nil {
			return err
		}
		text := data.Content
		if text != "" && !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		_, err = s.ws.Edit(text + argument)
		return err
	case "save", "saveas":
		data, err := s.ws.Current()
		if err != nil {
			return err
		}
		if command == "save" {
			_, err = s.ws.Save(ctx, data)
		} else {
			_, err = s.ws.SaveAs(ctx, data)
		}
		if err != nil {
			//reported through the listener already
			return nil
		}
	case "autosave":
		switch argument {
		case "on":
			s.ws.SetAutoSave(true)
		case "off":
			s.ws.SetAutoSave(false)
		default:
			return errors.New(`autosave expects "on" or "off"`)
		}
	case "discard":
		if active := s.ws.Active(); active != docspace.MissingId {
			if err := s.ws.Discard(active); err != nil {
				return err
			}
			return s.ws.Select(ctx, active)
		}
		return errors.New("no active document")
	default:
		if n, err := strconv.Atoi(command); err == nil && n > 0 {
			return s.dispatch(ctx, "open "+command)
		}
		return fmt.Errorf("unknown command %q, try \"help\"", command)
	}
	return nil
}
