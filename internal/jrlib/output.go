package jrlib

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen).SprintfFunc()
	errorColor   = color.New(color.FgRed).SprintfFunc()
	warningColor = color.New(color.FgYellow).SprintfFunc()
)

func printJSON(out io.Writer, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
