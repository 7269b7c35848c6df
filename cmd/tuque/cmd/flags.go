package cmd

import (
	"github.com/jonathangreen/tuque-sub001/pkg/config"
	"github.com/jonathangreen/tuque-sub001/pkg/dlogger"
	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type flagsT struct {
	root struct {
		configFile string
		logLevel   string
		namespace  string
		storeKind  string
		storeDir   string
		uuids      bool
		format     string
	}
	object struct {
		pid        string
		label      string
		owner      string
		state      stateValue
		logMessage string
		models     []string
		force      bool
	}
	datastream struct {
		controlGroup controlGroupValue
		label        string
		mimeType     string
		state        stateValue
		checksumType string
		checksum     string
		file         string
		location     string
		output       string
		version      int
		template     string
	}
	rels struct {
		dsID     string
		literal  bool
		datatype string
	}
	uuid struct {
		count int
	}
}

var tuqueFlags = flagsT{}

// stateValue is a pflag.Value accepting A, I or D
type stateValue struct {
	state model.State
}

var _ pflag.Value = &stateValue{}

func (s *stateValue) String() string { return string(s.state) }

func (s *stateValue) Set(v string) error {
	state, err := model.ParseState(v)
	if err != nil {
		return err
	}
	s.state = state
	return nil
}

func (s *stateValue) Type() string { return "state" }

// controlGroupValue is a pflag.Value accepting M, R, E or X
type controlGroupValue struct {
	cg model.ControlGroup
}

var _ pflag.Value = &controlGroupValue{}

func (c *controlGroupValue) String() string { return string(c.cg) }

func (c *controlGroupValue) Set(v string) error {
	cg, err := model.ParseControlGroup(v)
	if err != nil {
		return err
	}
	c.cg = cg
	return nil
}

func (c *controlGroupValue) Type() string { return "controlGroup" }

func addConfigFileFlag(cmd *cobra.Command) string {
	c := "config"
	cmd.PersistentFlags().StringVar(&tuqueFlags.root.configFile, c, "", "The configuration file (defaults to tuque.yaml in the current directory or in $HOME/.tuque)")
	return c
}

func addLogLevelFlag(cmd *cobra.Command) string {
	loglevel := "loglevel"
	cmd.PersistentFlags().StringVar(&tuqueFlags.root.logLevel, loglevel, dlogger.LogLevelInfo, "The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug")
	return loglevel
}

func addNamespaceFlag(cmd *cobra.Command) string {
	c := "namespace"
	cmd.PersistentFlags().StringVar(&tuqueFlags.root.namespace, c, "", "The namespace of minted identifiers")
	return c
}

func addStoreKindFlag(cmd *cobra.Command) string {
	c := "store"
	cmd.PersistentFlags().StringVar(&tuqueFlags.root.storeKind, c, config.StoreLocalFS, "The storage of the embedded repository: localfs, badger or memory")
	return c
}

func addStoreDirFlag(cmd *cobra.Command) string {
	c := "store-dir"
	cmd.PersistentFlags().StringVar(&tuqueFlags.root.storeDir, c, ".tuque", "The directory of the embedded repository")
	return c
}

func addUUIDsFlag(cmd *cobra.Command) string {
	c := "uuids"
	cmd.PersistentFlags().BoolVar(&tuqueFlags.root.uuids, c, false, "Mint identifiers as namespace:uuid")
	return c
}

func addFormatFlag(cmd *cobra.Command) string {
	c := "format"
	cmd.PersistentFlags().StringVar(&tuqueFlags.root.format, c, formatYAML, "The output format: yaml or json")
	return c
}

func addPIDFlag(cmd *cobra.Command) string {
	c := "pid"
	cmd.Flags().StringVar(&tuqueFlags.object.pid, c, "", "The identifier of the object, minted when empty")
	return c
}

func addObjectLabelFlag(cmd *cobra.Command) string {
	c := "label"
	cmd.Flags().StringVar(&tuqueFlags.object.label, c, "", "The label of the object")
	return c
}

func addOwnerFlag(cmd *cobra.Command) string {
	c := "owner"
	cmd.Flags().StringVar(&tuqueFlags.object.owner, c, "", "The owner of the object")
	return c
}

func addObjectStateFlag(cmd *cobra.Command) string {
	c := "state"
	tuqueFlags.object.state = stateValue{state: model.StateActive}
	cmd.Flags().Var(&tuqueFlags.object.state, c, "The state of the object: A (active), I (inactive) or D (deleted)")
	return c
}

func addLogMessageFlag(cmd *cobra.Command) string {
	c := "log-message"
	cmd.Flags().StringVar(&tuqueFlags.object.logMessage, c, "", "A message recorded in the audit trail of the object")
	return c
}

func addModelsFlag(cmd *cobra.Command) string {
	c := "model"
	cmd.Flags().StringSliceVar(&tuqueFlags.object.models, c, nil, "The content models of the object")
	return c
}

func addForceFlag(cmd *cobra.Command) string {
	c := "force"
	cmd.Flags().BoolVar(&tuqueFlags.object.force, c, false, "Skip the concurrent modification check")
	return c
}

func addControlGroupFlag(cmd *cobra.Command) string {
	c := "control-group"
	tuqueFlags.datastream.controlGroup = controlGroupValue{cg: model.ControlGroupManaged}
	cmd.Flags().Var(&tuqueFlags.datastream.controlGroup, c, "The control group of the datastream: M (managed), X (inline XML), R (redirect) or E (external)")
	return c
}

func addDatastreamLabelFlag(cmd *cobra.Command) string {
	c := "label"
	cmd.Flags().StringVar(&tuqueFlags.datastream.label, c, "", "The label of the datastream")
	return c
}

func addMimeTypeFlag(cmd *cobra.Command) string {
	c := "mimetype"
	cmd.Flags().StringVar(&tuqueFlags.datastream.mimeType, c, "", "The mimetype of the datastream content")
	return c
}

func addDatastreamStateFlag(cmd *cobra.Command) string {
	c := "state"
	tuqueFlags.datastream.state = stateValue{state: model.StateActive}
	cmd.Flags().Var(&tuqueFlags.datastream.state, c, "The state of the datastream: A (active), I (inactive) or D (deleted)")
	return c
}

func addChecksumTypeFlag(cmd *cobra.Command) string {
	c := "checksum-type"
	cmd.Flags().StringVar(&tuqueFlags.datastream.checksumType, c, "", "The checksum algorithm: MD5, SHA-1, SHA-256, SHA-384, SHA-512 or DISABLED")
	return c
}

func addChecksumFlag(cmd *cobra.Command) string {
	c := "checksum"
	cmd.Flags().StringVar(&tuqueFlags.datastream.checksum, c, "", "The expected checksum of the content")
	return c
}

func addFileFlag(cmd *cobra.Command) string {
	c := "file"
	cmd.Flags().StringVar(&tuqueFlags.datastream.file, c, "", "The file holding the content")
	return c
}

func addLocationFlag(cmd *cobra.Command) string {
	c := "location"
	cmd.Flags().StringVar(&tuqueFlags.datastream.location, c, "", "The URL of the content")
	return c
}

func addOutputFlag(cmd *cobra.Command) string {
	c := "output"
	cmd.Flags().StringVar(&tuqueFlags.datastream.output, c, "", "The file to write the content to (defaults to stdout)")
	return c
}

func addVersionFlag(cmd *cobra.Command) string {
	c := "version"
	cmd.Flags().IntVar(&tuqueFlags.datastream.version, c, 0, "The version of the content, 0 being the current one")
	return c
}

func addTemplateFlag(cmd *cobra.Command) string {
	c := "template"
	cmd.Flags().StringVar(&tuqueFlags.datastream.template, c, "", "A go template to render each datastream")
	return c
}

func addRelsDatastreamFlag(cmd *cobra.Command) string {
	c := "dsid"
	cmd.Flags().StringVar(&tuqueFlags.rels.dsID, c, "", "Use the relationships of a datastream (RELS-INT) instead of the object (RELS-EXT)")
	return c
}

func addLiteralFlag(cmd *cobra.Command) string {
	c := "literal"
	cmd.Flags().BoolVar(&tuqueFlags.rels.literal, c, false, "The value is a literal, not a resource")
	return c
}

func addDatatypeFlag(cmd *cobra.Command) string {
	c := "datatype"
	cmd.Flags().StringVar(&tuqueFlags.rels.datatype, c, "", "The datatype URI of a literal value")
	return c
}

func addCountFlag(cmd *cobra.Command) string {
	c := "count"
	cmd.Flags().IntVar(&tuqueFlags.uuid.count, c, 1, "The number of values to generate")
	return c
}

func requireFlags(cmd *cobra.Command, flags ...string) {
	for _, flag := range flags {
		if err := cmd.MarkFlagRequired(flag); err != nil {
			wrapFatalln("mark required flag "+flag, err)
		}
	}
}
