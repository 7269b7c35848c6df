package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliResult struct {
	out   string
	fatal error
	code  int
	err   error
}

// resetFlags restores the defaults of all flags, since commands and their flags are package globals
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func runCmd(t *testing.T, args ...string) cliResult {
	t.Helper()
	var (
		buf bytes.Buffer
		res cliResult
	)
	out = &buf
	logFatalf = func(format string, v ...interface{}) {
		if res.fatal == nil {
			res.fatal = fmt.Errorf(format, v...)
		}
	}
	logFatalln = func(v ...interface{}) {
		if res.fatal == nil {
			res.fatal = errors.New(fmt.Sprint(v...))
		}
	}
	osExit = func(code int) {
		if res.code == 0 {
			res.code = code
		}
	}

	resetFlags(rootCmd)
	rootCmd.SetArgs(append([]string{"--store", "localfs", "--store-dir", "/repo", "--loglevel", "none"}, args...))
	res.err = rootCmd.Execute()
	res.out = buf.String()
	return res
}

func requireOK(t *testing.T, res cliResult) string {
	t.Helper()
	require.NoError(t, res.err)
	require.NoError(t, res.fatal)
	require.Zero(t, res.code)
	return res.out
}

func setupCLI(t *testing.T) {
	color.NoColor = true
	appFs = afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(appFs, "/in/ocr.txt", []byte("first text"), 0o644))
	require.NoError(t, afero.WriteFile(appFs, "/in/ocr2.txt", []byte("second text"), 0o644))
}

func TestCLIObjectLifecycle(t *testing.T) {
	setupCLI(t)

	output := requireOK(t, runCmd(t, "object", "create", "--pid", "test:1", "--label", "a book", "--model", "islandora:bookCModel"))
	assert.Equal(t, "test:1\n", output)

	output = requireOK(t, runCmd(t, "object", "get", "test:1"))
	assert.Contains(t, output, "pid: test:1")
	assert.Contains(t, output, "label: a book")
	assert.Contains(t, output, "islandora:bookCModel")
	assert.Contains(t, output, "RELS-EXT")

	output = requireOK(t, runCmd(t, "object", "get", "test:1", "--format", "json"))
	assert.Contains(t, output, `"pid": "test:1"`)

	output = requireOK(t, runCmd(t, "object", "set", "test:1", "--label", "a better book", "--state", "I"))
	assert.Contains(t, output, "label: a better book")
	assert.Contains(t, output, "state: I")

	res := runCmd(t, "object", "set", "test:1", "--state", "Z")
	assert.Error(t, res.err, "invalid state values are rejected by the flag")

	requireOK(t, runCmd(t, "object", "purge", "test:1"))
	res = runCmd(t, "object", "get", "test:1")
	assert.Equal(t, exitNotFound, res.code)
}

func TestCLIObjectMinted(t *testing.T) {
	setupCLI(t)

	output := requireOK(t, runCmd(t, "object", "create", "--namespace", "demo"))
	assert.Equal(t, "demo:1\n", output)
	output = requireOK(t, runCmd(t, "object", "create", "--namespace", "demo"))
	assert.Equal(t, "demo:2\n", output)

	output = requireOK(t, runCmd(t, "object", "create", "--namespace", "demo", "--uuids"))
	pid := strings.TrimSpace(output)
	assert.True(t, strings.HasPrefix(pid, "demo:"))
	assert.Len(t, strings.TrimPrefix(pid, "demo:"), 36)
}

func TestCLIDatastreams(t *testing.T) {
	setupCLI(t)
	requireOK(t, runCmd(t, "object", "create", "--pid", "test:1"))

	output := requireOK(t, runCmd(t, "ds", "add", "test:1", "OCR", "--file", "/in/ocr.txt", "--mimetype", "text/plain", "--label", "Text"))
	assert.Contains(t, output, "id: OCR")
	assert.Contains(t, output, "size: 10")

	res := runCmd(t, "ds", "add", "test:1", "OCR", "--file", "/in/ocr.txt")
	assert.Equal(t, exitConflict, res.code)

	requireOK(t, runCmd(t, "ds", "add", "test:1", "LINK", "--control-group", "R", "--location", "http://example.com/a.pdf"))

	output = requireOK(t, runCmd(t, "ds", "list", "test:1"))
	assert.Contains(t, output, "OCR\tM\ttext/plain\t10B\tText\n")
	assert.Contains(t, output, "LINK\tR\t")

	output = requireOK(t, runCmd(t, "ds", "list", "test:1", "--template", "{{.ID}}"))
	assert.Equal(t, "OCR\nLINK\n", output)

	assert.Equal(t, "first text", requireOK(t, runCmd(t, "ds", "get", "test:1", "OCR")))
	assert.Equal(t, "http://example.com/a.pdf\n", requireOK(t, runCmd(t, "ds", "get", "test:1", "LINK")))

	requireOK(t, runCmd(t, "ds", "set", "test:1", "OCR", "--file", "/in/ocr2.txt"))
	assert.Equal(t, "second text", requireOK(t, runCmd(t, "ds", "get", "test:1", "OCR")))
	assert.Equal(t, "first text", requireOK(t, runCmd(t, "ds", "get", "test:1", "OCR", "--version", "1")))

	requireOK(t, runCmd(t, "ds", "get", "test:1", "OCR", "--output", "/out/ocr.txt", "--version", "1"))
	b, err := afero.ReadFile(appFs, "/out/ocr.txt")
	require.NoError(t, err)
	assert.Equal(t, "first text", string(b))

	output = requireOK(t, runCmd(t, "ds", "history", "test:1", "OCR", "--format", "json"))
	assert.Equal(t, 2, strings.Count(output, `"id": "OCR"`))

	output = requireOK(t, runCmd(t, "ds", "info", "test:1", "OCR"))
	assert.Contains(t, output, "label: Text")

	requireOK(t, runCmd(t, "ds", "purge", "test:1", "OCR"))
	res = runCmd(t, "ds", "info", "test:1", "OCR")
	assert.Equal(t, exitNotFound, res.code)
}

func TestCLIRelationships(t *testing.T) {
	setupCLI(t)
	requireOK(t, runCmd(t, "object", "create", "--pid", "test:1"))
	requireOK(t, runCmd(t, "ds", "add", "test:1", "OCR", "--file", "/in/ocr.txt"))

	const relsExt = "info:fedora/fedora-system:def/relations-external#"
	requireOK(t, runCmd(t, "rels", "add", "test:1", relsExt, "isMemberOfCollection", "islandora:root"))
	requireOK(t, runCmd(t, "rels", "add", "test:1", "http://islandora.ca/ontology/relsext#", "isSequenceNumber", "3", "--literal"))
	requireOK(t, runCmd(t, "rels", "add", "test:1", "http://islandora.ca/ontology/relsint#", "isPageOf", "test:book", "--dsid", "OCR"))

	output := requireOK(t, runCmd(t, "rels", "list", "test:1", relsExt))
	assert.Contains(t, output, "value: info:fedora/islandora:root")
	assert.NotContains(t, output, "isSequenceNumber")

	output = requireOK(t, runCmd(t, "rels", "list", "test:1", "--dsid", "OCR"))
	assert.Contains(t, output, "predicate: isPageOf")

	res := runCmd(t, "rels", "remove", "test:1", "", "", "")
	assert.Error(t, res.fatal)

	output = requireOK(t, runCmd(t, "rels", "remove", "test:1", "", "", "islandora:root"))
	assert.Equal(t, "1\n", output)
}

func TestCLIMisc(t *testing.T) {
	setupCLI(t)

	output := requireOK(t, runCmd(t, "uuid", "--count", "2"))
	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 2)
	assert.Len(t, lines[0], 36)
	assert.NotEqual(t, lines[0], lines[1])

	output = requireOK(t, runCmd(t, "config", "show"))
	assert.Contains(t, output, "kind: localfs")
	assert.Contains(t, output, "dir: /repo")
}
