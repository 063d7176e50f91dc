package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newReportesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reportes",
		Short: "Show the statistics report (ADMIN)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := a.svc.Dashboard.Report(a.ctx(cmd))
			if err != nil {
				return err
			}
			if !a.table() {
				return a.print(cmd, report)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Usuarios\t%d\n", report.TotalUsuarios)
			fmt.Fprintf(w, "Productos\t%d\n", report.TotalProductos)
			fmt.Fprintf(w, "Pedidos\t%d\n", report.TotalPedidos)
			fmt.Fprintf(w, "Ingresos\t%.2f\n", report.IngresosTotales)
			if len(report.ProductosMasVendidos) > 0 {
				fmt.Fprintln(w, "\nMÁS VENDIDOS\tCANTIDAD\tVENTAS")
				for _, p := range report.ProductosMasVendidos {
					fmt.Fprintf(w, "%s\t%d\t%.2f\n", p.Nombre, p.Cantidad, p.Ventas)
				}
			}
			return w.Flush()
		},
	}
}
