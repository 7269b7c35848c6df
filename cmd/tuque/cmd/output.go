package cmd

import (
	"fmt"
	"text/template"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v2"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// printValue writes a value in the requested output format
func printValue(v interface{}) error {
	var (
		b   []byte
		err error
	)
	switch tuqueFlags.root.format {
	case formatJSON:
		b, err = json.MarshalIndent(v, "", "  ")
		b = append(b, '\n')
	case formatYAML, "":
		b, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unknown output format %q: expected %s or %s", tuqueFlags.root.format, formatYAML, formatJSON)
	}
	if err != nil {
		return err
	}
	_, err = out.Write(b)
	return err
}

// templateFuncs are available to the --template flags. Colors are disabled when not writing to a terminal.
var templateFuncs = template.FuncMap{
	"faint": func(s string) string { return color.HiBlackString("%s", s) },
	"bold":  func(s string) string { return color.New(color.Bold).Sprint(s) },
}

// lineTemplate parses the template given by flag, or the default one
func lineTemplate(name, flagValue, defaultValue string) (*template.Template, error) {
	text := defaultValue
	if flagValue != "" {
		text = flagValue
	}
	return template.New(name).Funcs(templateFuncs).Parse(text)
}
