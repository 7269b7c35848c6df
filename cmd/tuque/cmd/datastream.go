package cmd

import (
	"context"
	"fmt"

	"github.com/docker/go-units"
	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/repository"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"github.com/spf13/cobra"
)

// datastreamCmd represents the datastream related commands
var datastreamCmd = &cobra.Command{
	Use:     "datastream",
	Aliases: []string{"ds"},
	Short:   "Commands to manage the datastreams of an object",
	Long: `Commands to manage the datastreams of an object.

A datastream holds content, either stored by the repository (managed or inline XML),
or referenced by an URL (redirect or external). Versionable datastreams keep every version of their content.`,
}

const defaultDatastreamTemplate = `{{bold .ID}}	{{.ControlGroup}}	{{.MimeType}}	{{.HumanSize}}	{{faint .Label}}`

var datastreamListCmd = &cobra.Command{
	Use:   "list PID",
	Short: "List the datastreams of an object",
	Args:  cobra.ExactArgs(1),
	Run: withRepository("datastream list", func(ctx context.Context, _ *cobra.Command, repo *repository.Repository, args []string) error {
		tpl, err := lineTemplate("datastream", tuqueFlags.datastream.template, defaultDatastreamTemplate)
		if err != nil {
			return err
		}
		obj, err := repo.GetObject(ctx, args[0])
		if err != nil {
			return err
		}
		all, err := obj.Datastreams(ctx)
		if err != nil {
			return err
		}
		for _, ds := range all {
			info, err := ds.Info(ctx)
			if err != nil {
				return err
			}
			if err = tpl.Execute(out, struct {
				model.DatastreamInfo
				HumanSize string
			}{
				DatastreamInfo: info,
				HumanSize:      units.HumanSize(float64(info.Size)),
			}); err != nil {
				return err
			}
			if _, err = fmt.Fprintln(out); err != nil {
				return err
			}
		}
		return nil
	}),
}

func getDatastream(ctx context.Context, repo *repository.Repository, pid, dsID string) (*repository.PersistedObject, repository.Datastream, error) {
	obj, err := repo.GetObject(ctx, pid)
	if err != nil {
		return nil, nil, err
	}
	ds, err := obj.Datastream(ctx, dsID)
	if err != nil {
		return nil, nil, err
	}
	return obj, ds, nil
}

var datastreamInfoCmd = &cobra.Command{
	Use:   "info PID DSID",
	Short: "Print the properties of a datastream",
	Args:  cobra.ExactArgs(2),
	Run: withRepository("datastream info", func(ctx context.Context, _ *cobra.Command, repo *repository.Repository, args []string) error {
		_, ds, err := getDatastream(ctx, repo, args[0], args[1])
		if err != nil {
			return err
		}
		info, err := ds.Info(ctx)
		if err != nil {
			return err
		}
		return printValue(info)
	}),
}

var datastreamHistoryCmd = &cobra.Command{
	Use:   "history PID DSID",
	Short: "Print the versions of a datastream, newest first",
	Args:  cobra.ExactArgs(2),
	Run: withRepository("datastream history", func(ctx context.Context, _ *cobra.Command, repo *repository.Repository, args []string) error {
		_, ds, err := getDatastream(ctx, repo, args[0], args[1])
		if err != nil {
			return err
		}
		versions, err := ds.(*repository.PersistedDatastream).History(ctx)
		if err != nil {
			return err
		}
		infos := make([]model.DatastreamInfo, 0, len(versions))
		for _, v := range versions {
			infos = append(infos, v.Info())
		}
		return printValue(infos)
	}),
}

var datastreamGetCmd = &cobra.Command{
	Use:   "get PID DSID",
	Short: "Write the content of a datastream",
	Long: `Write the content of a managed or inline datastream to stdout or to a file.

The location of redirect and external datastreams is printed instead.`,
	Args: cobra.ExactArgs(2),
	Run: withRepository("datastream get", func(ctx context.Context, _ *cobra.Command, repo *repository.Repository, args []string) error {
		_, ds, err := getDatastream(ctx, repo, args[0], args[1])
		if err != nil {
			return err
		}
		info, err := ds.Info(ctx)
		if err != nil {
			return err
		}
		if info.ControlGroup.IsReference() {
			_, err = fmt.Fprintln(out, info.Location)
			return err
		}

		persisted := ds.(*repository.PersistedDatastream)
		if tuqueFlags.datastream.output == "" {
			return persisted.ContentAt(ctx, tuqueFlags.datastream.version, out)
		}
		if tuqueFlags.datastream.version == 0 {
			return ds.ContentFile(ctx, appFs, tuqueFlags.datastream.output)
		}
		file, err := appFs.Create(tuqueFlags.datastream.output)
		if err != nil {
			return err
		}
		if err = persisted.ContentAt(ctx, tuqueFlags.datastream.version, file); err != nil {
			_ = file.Close()
			return err
		}
		return file.Close()
	}),
}

var datastreamAddCmd = &cobra.Command{
	Use:   "add PID DSID",
	Short: "Add a datastream to an object",
	Long: `Add a datastream to an object.

The content of managed and inline datastreams is read from --file, redirect and external datastreams take a --location.`,
	Args: cobra.ExactArgs(2),
	Run: withRepository("datastream add", func(ctx context.Context, _ *cobra.Command, repo *repository.Repository, args []string) error {
		if err := model.ValidateDatastreamID(args[1]); err != nil {
			return err
		}
		obj, err := repo.GetObject(ctx, args[0])
		if err != nil {
			return err
		}
		ds := obj.ConstructDatastream(args[1], tuqueFlags.datastream.controlGroup.cg)
		if err = applyDatastreamFlags(ctx, nil, ds); err != nil {
			return err
		}
		ok, err := obj.IngestDatastream(ctx, ds)
		if err != nil {
			return err
		}
		if !ok {
			return status.ErrDuplicateDatastream.WrapMessage(fmt.Sprintf("%s already has a datastream %s", args[0], args[1]))
		}
		added, err := obj.Datastream(ctx, args[1])
		if err != nil {
			return err
		}
		info, err := added.Info(ctx)
		if err != nil {
			return err
		}
		return printValue(info)
	}),
}

var datastreamSetCmd = &cobra.Command{
	Use:   "set PID DSID",
	Short: "Change a datastream",
	Long: `Change the properties or the content of a datastream. A versionable datastream gets a new version.

The change is rejected if the datastream was modified by someone else since it was read, unless --force is set.`,
	Args: cobra.ExactArgs(2),
	Run: withRepository("datastream set", func(ctx context.Context, cmd *cobra.Command, repo *repository.Repository, args []string) error {
		obj, ds, err := getDatastream(ctx, repo, args[0], args[1])
		if err != nil {
			return err
		}
		obj.ForceUpdate(tuqueFlags.object.force)
		if err = applyDatastreamFlags(ctx, cmd, ds); err != nil {
			return err
		}
		info, err := ds.Info(ctx)
		if err != nil {
			return err
		}
		return printValue(info)
	}),
}

// applyDatastreamFlags sets the properties given by flag. With a nil command, every non empty flag applies.
func applyDatastreamFlags(ctx context.Context, cmd *cobra.Command, ds repository.Datastream) error {
	given := func(flag, value string) bool {
		if cmd == nil {
			return value != ""
		}
		return cmd.Flags().Changed(flag)
	}
	f := tuqueFlags.datastream

	if given("label", f.label) {
		if err := ds.SetLabel(ctx, f.label); err != nil {
			return err
		}
	}
	if given("mimetype", f.mimeType) {
		if err := ds.SetMimeType(ctx, f.mimeType); err != nil {
			return err
		}
	}
	if cmd == nil || cmd.Flags().Changed("state") {
		if err := ds.SetState(ctx, f.state.state); err != nil {
			return err
		}
	}
	if given("checksum-type", f.checksumType) {
		if err := ds.SetChecksumType(ctx, f.checksumType); err != nil {
			return err
		}
	}
	if given("checksum", f.checksum) {
		if err := ds.SetChecksum(ctx, f.checksum); err != nil {
			return err
		}
	}
	if given("file", f.file) {
		if err := ds.SetContentFromFile(ctx, appFs, f.file); err != nil {
			return err
		}
	}
	if given("location", f.location) {
		if err := ds.SetLocation(ctx, f.location); err != nil {
			return err
		}
	}
	return nil
}

var datastreamPurgeCmd = &cobra.Command{
	Use:   "purge PID DSID",
	Short: "Remove a datastream with all its versions",
	Args:  cobra.ExactArgs(2),
	Run: withRepository("datastream purge", func(ctx context.Context, _ *cobra.Command, repo *repository.Repository, args []string) error {
		obj, err := repo.GetObject(ctx, args[0])
		if err != nil {
			return err
		}
		ok, err := obj.PurgeDatastream(ctx, args[1])
		if err != nil {
			return err
		}
		if !ok {
			return status.ErrNotFound.WrapMessage(fmt.Sprintf("datastream %s of %s", args[1], args[0]))
		}
		return nil
	}),
}

func init() {
	addTemplateFlag(datastreamListCmd)

	addOutputFlag(datastreamGetCmd)
	addVersionFlag(datastreamGetCmd)

	addControlGroupFlag(datastreamAddCmd)
	for _, c := range []*cobra.Command{datastreamAddCmd, datastreamSetCmd} {
		addDatastreamLabelFlag(c)
		addMimeTypeFlag(c)
		addDatastreamStateFlag(c)
		addChecksumTypeFlag(c)
		addChecksumFlag(c)
		addFileFlag(c)
		addLocationFlag(c)
	}
	addForceFlag(datastreamSetCmd)

	datastreamCmd.AddCommand(datastreamListCmd, datastreamInfoCmd, datastreamHistoryCmd, datastreamGetCmd,
		datastreamAddCmd, datastreamSetCmd, datastreamPurgeCmd)
	rootCmd.AddCommand(datastreamCmd)
}
