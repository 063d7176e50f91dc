package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"tienda-console/internal/core/domain"

	"github.com/spf13/cobra"
)

func newPedidosCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pedidos",
		Args:  cobra.NoArgs,
		Short: "Order management commands (ADMIN)",
	}
	cmd.AddCommand(
		newPedidosListarCmd(a),
		newPedidosEstadoCmd(a),
	)
	return cmd
}

func newPedidosListarCmd(a *app) *cobra.Command {
	var search, estado, pago string

	cmd := &cobra.Command{
		Use:   "listar",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := domain.OrderFilter{
				Search:       search,
				EstadoPedido: domain.OrderStatus(strings.ToUpper(estado)),
				EstadoPago:   domain.PaymentStatus(strings.ToUpper(pago)),
			}
			orders, err := a.svc.Orders.List(a.ctx(cmd), filter)
			if err != nil {
				return err
			}
			if !a.table() {
				return a.print(cmd, orders)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNUMERO\tCLIENTE\tTOTAL\tPEDIDO\tPAGO")
			for _, o := range orders {
				fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\t%s\n", o.ID, o.NumeroPedido, o.NombreCliente, o.Total, o.EstadoPedido, o.EstadoPago)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "search term")
	cmd.Flags().StringVar(&estado, "estado", "", "order status")
	cmd.Flags().StringVar(&pago, "pago", "", "payment status")
	return cmd
}

func newPedidosEstadoCmd(a *app) *cobra.Command {
	var estado, pago string

	cmd := &cobra.Command{
		Use:   "estado <id>",
		Short: "Change order and/or payment status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("id de pedido no válido: %q", args[0])
			}
			if estado == "" && pago == "" {
				return fmt.Errorf("indica --estado y/o --pago")
			}

			order, err := a.svc.Orders.UpdateStatus(a.ctx(cmd), id, domain.StatusUpdate{
				EstadoPedido: domain.OrderStatus(strings.ToUpper(estado)),
				EstadoPago:   domain.PaymentStatus(strings.ToUpper(pago)),
			})
			if err != nil {
				return err
			}
			if !a.table() {
				return a.print(cmd, order)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Pedido %s: %s / %s\n", order.NumeroPedido, order.EstadoPedido, order.EstadoPago)
			return nil
		},
	}

	cmd.Flags().StringVar(&estado, "estado", "", "new order status")
	cmd.Flags().StringVar(&pago, "pago", "", "new payment status")
	return cmd
}
