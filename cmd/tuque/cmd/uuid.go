package cmd

import (
	"fmt"

	"github.com/jonathangreen/tuque-sub001/pkg/uuid"
	"github.com/spf13/cobra"
)

var uuidCmd = &cobra.Command{
	Use:   "uuid",
	Short: "Generate random UUIDs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		gen := uuid.NewGenerator()
		for i := 0; i < tuqueFlags.uuid.count; i++ {
			u, err := gen.New()
			if err != nil {
				wrapFatalln("generate uuid", err)
				return
			}
			_, _ = fmt.Fprintln(out, u)
		}
	},
}

func init() {
	addCountFlag(uuidCmd)
	rootCmd.AddCommand(uuidCmd)
}
