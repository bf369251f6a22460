package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/mattn/go-isatty"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// readTemplate returns the template text from --template, --file or a
// piped stdin.
func readTemplate(f *engineFlags, stdin io.Reader) (string, error) {
	if f.templateText != "" && f.templateFile != "" {
		return "", newExitError(ExitCodeUsageError, ErrMsgTemplateConflict, nil)
	}
	if f.templateText != "" {
		return f.templateText, nil
	}
	if f.templateFile != "" {
		data, err := readInput(f.templateFile, stdin)
		if err != nil {
			return "", newExitError(ExitCodeInputError, ErrMsgReadFileFailed, err)
		}
		return string(data), nil
	}
	if !isPiped(stdin) {
		return "", newExitError(ExitCodeUsageError, ErrMsgMissingTemplate, nil)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", newExitError(ExitCodeInputError, ErrMsgReadStdinFailed, err)
	}
	if len(data) == 0 {
		return "", newExitError(ExitCodeUsageError, ErrMsgMissingTemplate, nil)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

// isPiped reports whether stdin can be read without blocking on a terminal.
// Readers other than files are always considered piped.
func isPiped(stdin io.Reader) bool {
	if stdin == nil {
		return false
	}
	file, ok := stdin.(*os.File)
	if !ok {
		return true
	}
	fd := file.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" || path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, FilePermissions)
}

// loadData reads the data argument. Inline data is JSON or YAML. Files are
// decoded by extension: JSON stays raw for the JSON source, YAML is kept as
// a node tree, TOML becomes a map and XML the root element.
func loadData(inline, path string) (any, error) {
	if inline != "" && path != "" {
		return nil, newExitError(ExitCodeUsageError, ErrMsgDataConflict, nil)
	}
	if inline != "" {
		if json.Valid([]byte(inline)) {
			return json.RawMessage(inline), nil
		}
		return decodeYAML([]byte(inline))
	}
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newExitError(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ExtJSON:
		var probe any
		if err := json.Unmarshal(data, &probe); err != nil {
			return nil, newExitError(ExitCodeInputError, ErrMsgInvalidData, err)
		}
		return json.RawMessage(data), nil
	case ExtYAML, ExtYML:
		return decodeYAML(data)
	case ExtTOML:
		var m map[string]any
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, newExitError(ExitCodeInputError, ErrMsgInvalidData, err)
		}
		return m, nil
	case ExtXML:
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(data); err != nil {
			return nil, newExitError(ExitCodeInputError, ErrMsgInvalidData, err)
		}
		root := doc.Root()
		if root == nil {
			return nil, newExitError(ExitCodeInputError, ErrMsgInvalidData, nil)
		}
		return root, nil
	default:
		return nil, newExitError(ExitCodeInputError, ErrMsgUnknownDataType, nil)
	}
}

func decodeYAML(data []byte) (any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, newExitError(ExitCodeInputError, ErrMsgInvalidData, err)
	}
	return &node, nil
}
