package main

import (
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/spf13/cobra"

	"github.com/xenking/gadget-catalog/internal/catalog"
	"github.com/xenking/gadget-catalog/internal/domain/product"
)

func newQueryCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run catalog queries and print JSON",
	}
	cmd.PersistentFlags().StringVarP(&file, "catalog", "c", "", "Catalog JSON file (default: embedded catalog)")

	// run loads the catalog and prints what encode writes.
	run := func(cmd *cobra.Command, encode func(e *jx.Encoder, engine *catalog.Engine) error) error {
		engine, err := loadCatalog(cmd.Context(), file)
		if err != nil {
			return err
		}
		e := &jx.Encoder{}
		e.SetIdent(2)
		if err := encode(e, engine); err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(append(e.Bytes(), '\n'))
		return err
	}

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List categories, starting with \"all\"",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(e *jx.Encoder, engine *catalog.Engine) error {
				e.ArrStart()
				for _, c := range engine.Categories() {
					e.Str(c)
				}
				e.ArrEnd()
				return nil
			})
		},
	}

	var q catalog.Query
	list := &cobra.Command{
		Use:   "list",
		Short: "Print one page of products, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(e *jx.Encoder, engine *catalog.Engine) error {
				res := engine.Browse(q)
				e.ObjStart()
				e.FieldStart("category")
				e.Str(res.Category)
				e.FieldStart("items")
				product.EncodeList(e, res.Items)
				e.FieldStart("page")
				e.Int(res.Page.Page)
				e.FieldStart("pageSize")
				e.Int(res.PageSize)
				e.FieldStart("total")
				e.Int(res.Total)
				e.FieldStart("totalPages")
				e.Int(res.TotalPages)
				e.ObjEnd()
				return nil
			})
		},
	}
	list.Flags().StringVar(&q.Category, "category", catalog.AllCategories, "Category filter")
	list.Flags().IntVar(&q.Page, "page", 1, "Page number, starting at 1")
	list.Flags().IntVar(&q.PageSize, "page-size", catalog.DefaultPageSize, "Products per page")

	search := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search titles and prices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(e *jx.Encoder, engine *catalog.Engine) error {
				items := engine.Search(args[0])
				var suggestions []product.Product
				if len(items) == 0 {
					suggestions = engine.Suggestions(catalog.SuggestionLimit)
				}
				e.ObjStart()
				e.FieldStart("query")
				e.Str(args[0])
				e.FieldStart("items")
				product.EncodeList(e, items)
				e.FieldStart("suggestions")
				product.EncodeList(e, suggestions)
				e.ObjEnd()
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Print a product and its related products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Errorf("invalid product id %q", args[0])
			}
			return run(cmd, func(e *jx.Encoder, engine *catalog.Engine) error {
				p, ok := engine.Find(id)
				if !ok {
					return errors.Wrapf(product.ErrNotFound, "id %d", id)
				}
				related, _ := engine.Related(id)
				e.ObjStart()
				e.FieldStart("product")
				p.Encode(e)
				e.FieldStart("related")
				product.EncodeList(e, related)
				e.ObjEnd()
				return nil
			})
		},
	}

	cmd.AddCommand(categories, list, search, show)
	return cmd
}
