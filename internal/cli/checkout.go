package cli

import (
	"github.com/ridloal/meoris-storefront/internal/checkout/domain"
	"github.com/spf13/cobra"
)

func NewCheckoutCommand(app *App) *cobra.Command {
	var voucher string
	var lines []string
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Snapshot the cart, or some of its lines, at current prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.RequireUser(); err != nil {
				return err
			}
			req := domain.CreateFromCartRequest{LineIDs: lines}
			if voucher != "" {
				req.VoucherCode = &voucher
			}
			pc, err := app.Client.CreatePreCheckout(cmd.Context(), req)
			if err != nil {
				return err
			}
			if voucher != "" && pc.VoucherCode == nil && app.Format != "json" {
				app.printf("Voucher %s is not valid; no discount applied\n", voucher)
			}
			return app.printPreCheckout(pc)
		},
	}
	cmd.Flags().StringVar(&voucher, "voucher", "", "voucher code")
	cmd.Flags().StringSliceVar(&lines, "line", nil, "cart line id to include (repeatable); all lines when omitted")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a pre-checkout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.RequireUser(); err != nil {
				return err
			}
			pc, err := app.Client.PreCheckout(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.printPreCheckout(pc)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "submit <id>",
		Short: "Submit a draft pre-checkout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.RequireUser(); err != nil {
				return err
			}
			pc, err := app.Client.SubmitPreCheckout(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.printPreCheckout(pc)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a draft pre-checkout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.RequireUser(); err != nil {
				return err
			}
			pc, err := app.Client.UpdatePreCheckoutStatus(cmd.Context(), args[0], domain.StatusCancelled)
			if err != nil {
				return err
			}
			return app.printPreCheckout(pc)
		},
	})

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List pre-checkouts by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.RequireUser(); err != nil {
				return err
			}
			pcs, err := app.Client.PreCheckouts(cmd.Context(), domain.Status(status))
			if err != nil {
				return err
			}
			return app.emit(pcs, func() {
				if len(pcs) == 0 {
					app.printf("No pre-checkouts\n")
				}
				for _, pc := range pcs {
					app.printf("%s  %-9s %14s  %s\n", pc.ID, pc.Status, rupiah(pc.TotalAmount), pc.CreatedAt.Local().Format("2006-01-02 15:04"))
				}
			})
		},
	}
	list.Flags().StringVar(&status, "status", string(domain.StatusDraft), "draft|submitted|cancelled|expired|invalid")
	cmd.AddCommand(list)
	return cmd
}

func (a *App) printPreCheckout(pc *domain.PreCheckout) error {
	return a.emit(pc, func() {
		a.printf("Pre-checkout %s (%s)\n", pc.ID, pc.Status)
		for _, it := range pc.Items {
			name := it.ProdukID
			if it.Produk != nil {
				name = it.Produk.NamaProduk
			}
			a.printf("  %3d x %-28s %-4s @ %12s = %14s\n", it.Quantity, name, deref(it.Size, "-"), rupiah(it.HargaSatuan), rupiah(it.SubtotalItem))
		}
		a.printf("  Subtotal %s\n", rupiah(pc.Subtotal))
		if pc.VoucherCode != nil {
			a.printf("  Voucher  %s -%s\n", *pc.VoucherCode, rupiah(pc.DiscountAmount))
		}
		a.printf("  Total    %s\n", rupiah(pc.TotalAmount))
	})
}
