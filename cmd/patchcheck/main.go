package main

import (
	"os"

	"github.com/pterm/pterm"

	"patchcheck/pkg/errors"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		// A failed pass already printed its report; everything else
		// gets one line on stderr.
		if !errors.IsErrorCode(err, errors.ErrChecksFailed) {
			pterm.Error.WithWriter(os.Stderr).Println(err)
		}
		os.Exit(1)
	}
}
