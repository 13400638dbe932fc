package cli

import (
	"fmt"

	"github.com/aristath/frontier/internal/matrix"
	"github.com/spf13/cobra"
)

// NewMatrixCommand creates the matrix demo command.
func NewMatrixCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "matrix",
		Short: "Print the 2x2 matrix engine demo",
		Long:  "Print [[1 2] [3 4]], its transpose, determinant and inverse.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := matrix.NewFromRows([][]float64{{1, 2}, {3, 4}})
			if err != nil {
				return err
			}
			det, err := m.Determinant()
			if err != nil {
				return err
			}
			inv, err := m.Inverse()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "MatrixTest:")
			fmt.Fprintln(out, m.String())
			fmt.Fprintln(out, m.T().String())
			fmt.Fprintf(out, "%f\n", det)
			fmt.Fprintln(out, inv.String())
			return nil
		},
	}
}
