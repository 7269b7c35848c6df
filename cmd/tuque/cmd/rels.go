package cmd

import (
	"context"
	"fmt"

	"github.com/jonathangreen/tuque-sub001/pkg/rels"
	"github.com/jonathangreen/tuque-sub001/pkg/repository"
	"github.com/spf13/cobra"
)

// relsCmd represents the relationship related commands
var relsCmd = &cobra.Command{
	Use:     "relationship",
	Aliases: []string{"rels"},
	Short:   "Commands to manage the relationships of an object or a datastream",
	Long: `Commands to manage relationships, stored as RDF in the RELS-EXT datastream of an object,
or in its RELS-INT datastream for the relationships of its datastreams (--dsid).

A relationship is a predicate (namespace and name) and a value: another resource, or a literal.
Empty arguments match anything.`,
}

func relationships(ctx context.Context, repo *repository.Repository, pid string) (*rels.Relationships, error) {
	obj, err := repo.GetObject(ctx, pid)
	if err != nil {
		return nil, err
	}
	if tuqueFlags.rels.dsID == "" {
		return obj.Relationships(), nil
	}
	ds, err := obj.Datastream(ctx, tuqueFlags.rels.dsID)
	if err != nil {
		return nil, err
	}
	return ds.Relationships(), nil
}

var relsListCmd = &cobra.Command{
	Use:   "list PID [NAMESPACE [PREDICATE]]",
	Short: "List relationships",
	Args:  cobra.RangeArgs(1, 3),
	Run: withRepository("relationship list", func(ctx context.Context, _ *cobra.Command, repo *repository.Repository, args []string) error {
		r, err := relationships(ctx, repo, args[0])
		if err != nil {
			return err
		}
		filter := append(append([]string{}, args[1:]...), "", "")
		triples, err := r.Get(ctx, filter[0], filter[1])
		if err != nil {
			return err
		}
		return printValue(triples)
	}),
}

var relsAddCmd = &cobra.Command{
	Use:   "add PID NAMESPACE PREDICATE VALUE",
	Short: "Add a relationship",
	Args:  cobra.ExactArgs(4),
	Run: withRepository("relationship add", func(ctx context.Context, _ *cobra.Command, repo *repository.Repository, args []string) error {
		r, err := relationships(ctx, repo, args[0])
		if err != nil {
			return err
		}
		var opts []rels.TripleOption
		if tuqueFlags.rels.literal {
			opts = append(opts, rels.Literal())
		}
		if tuqueFlags.rels.datatype != "" {
			opts = append(opts, rels.Datatype(tuqueFlags.rels.datatype))
		}
		return r.Add(ctx, args[1], args[2], args[3], opts...)
	}),
}

var relsRemoveCmd = &cobra.Command{
	Use:   "remove PID NAMESPACE PREDICATE VALUE",
	Short: "Remove the relationships matching a filter",
	Long:  "Remove the relationships matching a filter and print how many were removed. At least one argument must be set.",
	Args:  cobra.ExactArgs(4),
	Run: withRepository("relationship remove", func(ctx context.Context, _ *cobra.Command, repo *repository.Repository, args []string) error {
		r, err := relationships(ctx, repo, args[0])
		if err != nil {
			return err
		}
		n, err := r.Remove(ctx, args[1], args[2], args[3])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, n)
		return err
	}),
}

func init() {
	for _, c := range []*cobra.Command{relsListCmd, relsAddCmd, relsRemoveCmd} {
		addRelsDatastreamFlag(c)
	}
	addLiteralFlag(relsAddCmd)
	addDatatypeFlag(relsAddCmd)

	relsCmd.AddCommand(relsListCmd, relsAddCmd, relsRemoveCmd)
	rootCmd.AddCommand(relsCmd)
}
