package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"

	cartdomain "github.com/ridloal/meoris-storefront/internal/cart/domain"
	"github.com/ridloal/meoris-storefront/internal/viewstate"
	"github.com/spf13/cobra"
)

func NewCartCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.RequireUser(); err != nil {
				return err
			}
			state := viewstate.NewCartState(app.Client, app.Client.ClientID)
			defer state.Close()
			if err := state.Refresh(cmd.Context()); err != nil {
				return err
			}
			return app.printCart(state)
		},
	}
	cmd.AddCommand(newCartAddCommand(app))
	cmd.AddCommand(newCartRemoveCommand(app))
	cmd.AddCommand(newCartQuantityCommand(app))
	cmd.AddCommand(newCartClearCommand(app))
	return cmd
}

func newCartAddCommand(app *App) *cobra.Command {
	var qty int
	var size string
	cmd := &cobra.Command{
		Use:   "add <productID>",
		Short: "Add a product; adding it again grows the same line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.RequireUser(); err != nil {
				return err
			}
			var sizePtr *string
			if size != "" {
				sizePtr = &size
			}
			item, err := app.Client.AddToCart(cmd.Context(), args[0], qty, sizePtr)
			if err != nil {
				return err
			}
			return app.emit(item, func() {
				app.printf("Cart line %s now has %d x %s\n", item.ID, item.Quantity, productName(*item))
			})
		},
	}
	cmd.Flags().IntVar(&qty, "qty", 1, "quantity to add")
	cmd.Flags().StringVar(&size, "size", "", "size, when the product has sizes")
	return cmd
}

func newCartRemoveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <lineID>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.RequireUser(); err != nil {
				return err
			}
			removed, err := app.Client.RemoveFromCart(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.emit(map[string]bool{"removed": removed}, func() {
				if removed {
					app.printf("Removed %s\n", args[0])
				} else {
					app.printf("Line %s was not in the cart\n", args[0])
				}
			})
		},
	}
}

func newCartQuantityCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "qty <lineID> <quantity>",
		Short: "Set the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			if _, err := app.RequireUser(); err != nil {
				return err
			}
			item, err := app.Client.UpdateCartQuantity(cmd.Context(), args[0], qty)
			if err != nil {
				return err
			}
			return app.emit(item, func() {
				app.printf("Cart line %s now has %d x %s\n", item.ID, item.Quantity, productName(*item))
			})
		},
	}
}

func newCartClearCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.RequireUser(); err != nil {
				return err
			}
			n, err := app.Client.ClearCart(cmd.Context())
			if err != nil {
				return err
			}
			return app.emit(map[string]int64{"removed": n}, func() {
				app.printf("Removed %d line(s)\n", n)
			})
		},
	}
}

// NewWatchCommand follows the cart live, printing it after every change made elsewhere.
func NewWatchCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow cart changes from other devices until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.RequireUser()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			state := viewstate.NewCartState(app.Client, app.Client.ClientID)
			defer state.Close()
			if err := state.Refresh(ctx); err != nil {
				return err
			}
			feed, err := app.Client.Subscribe(ctx, cartdomain.Table, "user_id=eq."+u.ID)
			if err != nil {
				return err
			}
			if err := app.printCart(state); err != nil {
				return err
			}
			for ev := range feed {
				if !state.Apply(ev) {
					continue
				}
				app.printf("-- %s %s\n", ev.Type, ev.At.Local().Format("15:04:05"))
				if err := app.printCart(state); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *App) printCart(state *viewstate.CartState) error {
	items := state.Items()
	view := struct {
		Items    []cartdomain.CartItem `json:"items"`
		Count    int                   `json:"count"`
		Subtotal int64                 `json:"subtotal"`
	}{items, state.Count(), state.Subtotal()}

	return a.emit(view, func() {
		if len(items) == 0 {
			a.printf("Cart is empty\n")
			return
		}
		for _, it := range items {
			a.printf("%s  %3d x %-28s %-4s %14s\n", it.ID, it.Quantity, productName(it), deref(it.Size, "-"), rupiah(it.LineTotal()))
		}
		a.printf("%d item(s), subtotal %s\n", view.Count, rupiah(view.Subtotal))
	})
}

func productName(it cartdomain.CartItem) string {
	if it.Produk == nil {
		return "(unavailable) " + it.ProdukID
	}
	return it.Produk.NamaProduk
}
