package cmd

import (
	"context"
	"fmt"

	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/repository"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"github.com/spf13/cobra"
)

// objectCmd represents the object related commands
var objectCmd = &cobra.Command{
	Use:   "object",
	Short: "Commands to manage objects",
	Long: `Commands to manage the objects of the repository.

An object has an identifier (namespace:id), a label, an owner and a state (active, inactive or deleted).
Its content is held by datastreams.`,
}

var objectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an object",
	Long:  "Create an object and print its identifier. The identifier is minted when --pid is not set.",
	Args:  cobra.NoArgs,
	Run: withRepository("object create", func(ctx context.Context, _ *cobra.Command, repo *repository.Repository, _ []string) error {
		obj, err := repo.ConstructObject(ctx, tuqueFlags.object.pid)
		if err != nil {
			return err
		}
		if err = obj.SetLabel(ctx, tuqueFlags.object.label); err != nil {
			return err
		}
		if err = obj.SetOwnerID(ctx, tuqueFlags.object.owner); err != nil {
			return err
		}
		if err = obj.SetState(ctx, tuqueFlags.object.state.state); err != nil {
			return err
		}
		if err = obj.SetLogMessage(ctx, tuqueFlags.object.logMessage); err != nil {
			return err
		}
		if len(tuqueFlags.object.models) > 0 {
			if err = obj.SetModels(ctx, tuqueFlags.object.models); err != nil {
				return err
			}
		}
		persisted, err := repo.IngestObject(ctx, obj)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, persisted.ID())
		return err
	}),
}

// objectView is the printed description of an object
type objectView struct {
	model.ObjectProfile `yaml:",inline"`
	Datastreams         []model.DatastreamEntry `json:"datastreams" yaml:"datastreams"`
}

var objectGetCmd = &cobra.Command{
	Use:   "get PID",
	Short: "Print an object",
	Long:  "Print the properties of an object and the list of its datastreams.",
	Args:  cobra.ExactArgs(1),
	Run: withRepository("object get", func(ctx context.Context, _ *cobra.Command, repo *repository.Repository, args []string) error {
		obj, err := repo.GetObject(ctx, args[0])
		if err != nil {
			return err
		}
		all, err := obj.Datastreams(ctx)
		if err != nil {
			return err
		}
		view := objectView{ObjectProfile: obj.Profile(), Datastreams: make([]model.DatastreamEntry, 0, len(all))}
		for _, ds := range all {
			info, err := ds.Info(ctx)
			if err != nil {
				return err
			}
			view.Datastreams = append(view.Datastreams, info.Entry())
		}
		return printValue(view)
	}),
}

var objectSetCmd = &cobra.Command{
	Use:   "set PID",
	Short: "Change an object",
	Long: `Change the label, owner or state of an object.

The change is rejected if the object was modified by someone else since it was read, unless --force is set.`,
	Args: cobra.ExactArgs(1),
	Run: withRepository("object set", func(ctx context.Context, cmd *cobra.Command, repo *repository.Repository, args []string) error {
		obj, err := repo.GetObject(ctx, args[0])
		if err != nil {
			return err
		}
		obj.ForceUpdate(tuqueFlags.object.force)
		if tuqueFlags.object.logMessage != "" {
			if err = obj.SetLogMessage(ctx, tuqueFlags.object.logMessage); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("label") {
			if err = obj.SetLabel(ctx, tuqueFlags.object.label); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("owner") {
			if err = obj.SetOwnerID(ctx, tuqueFlags.object.owner); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("state") {
			if err = obj.SetState(ctx, tuqueFlags.object.state.state); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("model") {
			if err = obj.SetModels(ctx, tuqueFlags.object.models); err != nil {
				return err
			}
		}
		return printValue(obj.Profile())
	}),
}

var objectPurgeCmd = &cobra.Command{
	Use:   "purge PID",
	Short: "Remove an object",
	Long:  "Remove an object with all its datastreams. Use 'object set --state D' to flag an object as deleted instead.",
	Args:  cobra.ExactArgs(1),
	Run: withRepository("object purge", func(ctx context.Context, _ *cobra.Command, repo *repository.Repository, args []string) error {
		ok, err := repo.PurgeObject(ctx, args[0])
		if err != nil {
			return err
		}
		if !ok {
			return status.ErrNotFound.WrapMessage("object " + args[0])
		}
		return nil
	}),
}

func init() {
	addPIDFlag(objectCreateCmd)
	addObjectLabelFlag(objectCreateCmd)
	addOwnerFlag(objectCreateCmd)
	addObjectStateFlag(objectCreateCmd)
	addLogMessageFlag(objectCreateCmd)
	addModelsFlag(objectCreateCmd)

	addObjectLabelFlag(objectSetCmd)
	addOwnerFlag(objectSetCmd)
	addObjectStateFlag(objectSetCmd)
	addLogMessageFlag(objectSetCmd)
	addModelsFlag(objectSetCmd)
	addForceFlag(objectSetCmd)

	objectCmd.AddCommand(objectCreateCmd, objectGetCmd, objectSetCmd, objectPurgeCmd)
	rootCmd.AddCommand(objectCmd)
}
