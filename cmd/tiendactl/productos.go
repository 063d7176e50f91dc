package main

import (
	"fmt"
	"text/tabwriter"

	"tienda-console/internal/core/domain"

	"github.com/spf13/cobra"
)

func newProductosCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "productos",
		Aliases: []string{"p"},
		Args:    cobra.NoArgs,
		Short:   "Catalog commands",
	}
	cmd.AddCommand(newProductosListarCmd(a))
	return cmd
}

func newProductosListarCmd(a *app) *cobra.Command {
	var filter domain.ProductFilter

	cmd := &cobra.Command{
		Use:   "listar",
		Short: "List products, filtered on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := a.svc.Catalog.List(a.ctx(cmd), filter)
			if err != nil {
				return err
			}
			if !a.table() {
				return a.print(cmd, products)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNOMBRE\tPRECIO\tSTOCK\tCATEGORIA\tDESTACADO")
			for _, p := range products {
				cat := ""
				if p.Categoria != nil {
					cat = *p.Categoria
				}
				fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%s\t%t\n", p.ID, p.Nombre, p.Precio, p.Stock, cat, p.Destacado)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&filter.Search, "nombre", "", "search term")
	cmd.Flags().StringVar(&filter.Categoria, "categoria", "", "category")
	return cmd
}
