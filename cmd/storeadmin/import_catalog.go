package main

import (
	"context"
	"fmt"
	"io"

	"store-manager/internal/catalog"
	"store-manager/internal/model"
	"store-manager/internal/repository"
	"store-manager/internal/service"

	"github.com/spf13/cobra"
)

type userFinder interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

type catalogImporter interface {
	Import(ctx context.Context, path string, ownerID int64) (catalog.Result, error)
}

func newImportCatalogCmd(a *app) *cobra.Command {
	var file, owner string

	cmd := &cobra.Command{
		Use:   "import-catalog",
		Short: "Create products from a CSV catalogue (gzipped or plain)",
		Long: "Reads rows of name,price,quantity,category from a local file, or from S3 when\n" +
			"S3_ENABLED is set, and creates one product per valid row owned by --owner.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			users := repository.NewUserRepository(a.pool, a.logger)
			importer := catalog.NewImporter(
				a.catalogLoader(ctx),
				service.NewProductService(repository.NewProductRepository(a.pool, a.logger), a.logger),
				a.logger,
			)
			return runImportCatalog(ctx, users, importer, file, owner, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "catalogue path (S3 key suffix when S3 is enabled)")
	cmd.Flags().StringVar(&owner, "owner", "", "username recorded as the products' creator")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func runImportCatalog(ctx context.Context, users userFinder, importer catalogImporter, file, owner string, out io.Writer) error {
	user, err := users.FindByUsername(ctx, owner)
	if err != nil {
		return fmt.Errorf("failed to look up owner %s: %w", owner, err)
	}
	if user == nil {
		return fmt.Errorf("owner %s does not exist", owner)
	}

	result, err := importer.Import(ctx, file, user.ID)
	for _, rowErr := range result.Errors {
		fmt.Fprintf(out, "line %d skipped: %v\n", rowErr.Line, rowErr.Err)
	}
	fmt.Fprintf(out, "imported %d products, skipped %d rows\n", result.Imported, result.Skipped)
	return err
}
