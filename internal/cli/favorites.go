package cli

import (
	"github.com/ridloal/meoris-storefront/internal/viewstate"
	"github.com/spf13/cobra"
)

func NewFavoritesCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fav",
		Aliases: []string{"favorites"},
		Short:   "Show favorite products",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.RequireUser(); err != nil {
				return err
			}
			state := viewstate.NewFavoritesState(app.Client)
			defer state.Close()
			if err := state.Load(cmd.Context()); err != nil {
				return err
			}
			items := state.Items()
			return app.emit(items, func() {
				if len(items) == 0 {
					app.printf("No favorites yet\n")
					return
				}
				for _, f := range items {
					name, price := f.ProdukID, ""
					if f.Produk != nil {
						name, price = f.Produk.NamaProduk, rupiah(f.Produk.Harga)
					}
					app.printf("%s  %-32s %14s\n", f.ProdukID, name, price)
				}
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <productID>",
		Short: "Add the product to favorites, or remove it if it is already there",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.RequireUser(); err != nil {
				return err
			}
			state := viewstate.NewFavoritesState(app.Client)
			defer state.Close()
			if err := state.Load(cmd.Context()); err != nil {
				return err
			}
			now, err := state.Toggle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.emit(map[string]interface{}{"favorite": now, "count": state.Count()}, func() {
				if now {
					app.printf("Added %s to favorites (%d total)\n", args[0], state.Count())
				} else {
					app.printf("Removed %s from favorites (%d total)\n", args[0], state.Count())
				}
			})
		},
	})
	return cmd
}
