package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jafarshop/paymentrelay/internal/config"
	"github.com/jafarshop/paymentrelay/internal/domain"
	"github.com/jafarshop/paymentrelay/internal/logging"
	"github.com/jafarshop/paymentrelay/internal/service"
)

func catalogCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "catalog [id]",
		Short: "List the flavors the relay prices carts against",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load configuration: %w", err)
				}
				file = cfg.CatalogFile
			}

			catalog, err := domain.LoadCatalog(file)
			if err != nil {
				return err
			}

			flavors := catalog.Flavors()
			if len(args) == 1 {
				f, ok := catalog.Lookup(args[0])
				if !ok {
					return fmt.Errorf("flavor %q not found", args[0])
				}
				flavors = []domain.Flavor{f}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tNAME\tPRICE\n")
			for _, f := range flavors {
				fmt.Fprintf(w, "%s\t%s\t%s %s\n", f.ID, f.Name, f.Price.StringFixed(2), catalog.Currency())
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog YAML file (defaults to CATALOG_FILE or the built-in catalog)")

	return cmd
}

func clientTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "client-token",
		Short: "Check the PayPal credentials by requesting a client token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			logger, err := logging.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()

			catalog, err := domain.LoadCatalog(cfg.CatalogFile)
			if err != nil {
				return err
			}

			svcs := service.NewServices(cfg, catalog, logger)
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ProcessorTimeout)
			defer cancel()

			token, err := svcs.PayPal.ClientToken(ctx)
			if err != nil {
				return fmt.Errorf("client token request failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "client token issued (%d bytes)\n", len(token))
			return nil
		},
	}
}
