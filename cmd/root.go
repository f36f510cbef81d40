package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cartCmd "github.com/houseofabhilasha/storefront/cart/cmd"
	checkoutCmd "github.com/houseofabhilasha/storefront/checkout/cmd"
	userCmd "github.com/houseofabhilasha/storefront/user/cmd"
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "storefront backend services",
}

var userServiceCmd = &cobra.Command{
	Use:   "user",
	Short: "run the user service",
	Run: func(cmd *cobra.Command, args []string) {
		c, stop := signal.NotifyContext(
			context.Background(),
			syscall.SIGINT,
			syscall.SIGTERM,
		)
		defer stop()
		userCmd.RunUserService(c)
	},
}

var cartServiceCmd = &cobra.Command{
	Use:   "cart",
	Short: "run the cart service",
	Run: func(cmd *cobra.Command, args []string) {
		c, stop := signal.NotifyContext(
			context.Background(),
			syscall.SIGINT,
			syscall.SIGTERM,
		)
		defer stop()
		cartCmd.RunCartService(c)
	},
}

var checkoutServiceCmd = &cobra.Command{
	Use:   "checkout",
	Short: "run the checkout service",
	Run: func(cmd *cobra.Command, args []string) {
		c, stop := signal.NotifyContext(
			context.Background(),
			syscall.SIGINT,
			syscall.SIGTERM,
		)
		defer stop()
		checkoutCmd.RunCheckoutService(c)
	},
}

func init() {
	rootCmd.AddCommand(userServiceCmd, cartServiceCmd, checkoutServiceCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
