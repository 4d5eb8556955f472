package cli

import (
	"errors"
	"strings"

	productdomain "github.com/ridloal/meoris-storefront/internal/product/domain"
	"github.com/spf13/cobra"
)

func NewProductsCommand(app *App) *cobra.Command {
	var search, category string
	var limit int
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List, search or filter the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if search != "" && category != "" {
				return errors.New("use either --search or --category, not both")
			}
			var (
				products []productdomain.Product
				err      error
			)
			switch {
			case search != "":
				products, err = app.Client.SearchProducts(cmd.Context(), search)
			case category != "":
				products, err = app.Client.ProductsByCategory(cmd.Context(), category)
			default:
				products, err = app.Client.Products(cmd.Context(), limit, 0)
			}
			if err != nil {
				return err
			}
			return app.emit(products, func() {
				if len(products) == 0 {
					app.printf("No products found\n")
					return
				}
				for _, p := range products {
					sizes := "-"
					if s := p.Sizes(); len(s) > 0 {
						sizes = strings.Join(s, "/")
					}
					app.printf("%s  %-32s %14s  sizes %s\n", p.ID, p.NamaProduk, rupiah(p.Harga), sizes)
				}
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive name or description match")
	cmd.Flags().StringVar(&category, "category", "", "only products of this kategori")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of products (server default when 0)")
	return cmd
}

func NewVouchersCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "vouchers",
		Short: "List vouchers that can still be used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.RequireUser(); err != nil {
				return err
			}
			vouchers, err := app.Client.Vouchers(cmd.Context())
			if err != nil {
				return err
			}
			return app.emit(vouchers, func() {
				for _, v := range vouchers {
					app.printf("%-12s -%s until %s\n", v.Code, rupiah(v.TotalPotongan), v.Expired.Format("2006-01-02"))
				}
			})
		},
	}
}
