package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/afero"
)

const (
	exitNotFound = 2
	exitConflict = 3
)

var (
	// globals used to patch over calls to os.Exit() during test

	logFatalln = log.Fatalln
	logFatalf  = log.Fatalf
	osExit     = os.Exit

	// out receives the command results
	out io.Writer = os.Stdout

	// appFs is the file system used for content files, local stores and configuration
	appFs = afero.NewOsFs()
)

func wrapFatalln(msg string, err error) {
	if err == nil {
		logFatalln(msg)
	} else {
		logFatalf("%v", fmt.Errorf(msg+": %w", err))
	}
}

func wrapFatalWithCodef(code int, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	osExit(code)
}
