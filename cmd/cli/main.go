package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/MeJR20270/project-book/internal/auth"
	"github.com/MeJR20270/project-book/internal/config"
	"github.com/MeJR20270/project-book/internal/models"
	"github.com/MeJR20270/project-book/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:          "book-donation",
		Short:        "Administrative tasks for the book donation site",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "optional YAML config file")

	openStore := func(ctx context.Context) (*store.Store, error) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		db, err := store.NewStore(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		// the CLI may run before the server ever has
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	}

	root.AddCommand(newAddUserCmd(openStore), newImportBooksCmd(openStore))
	return root
}

type storeOpener func(ctx context.Context) (*store.Store, error)

func newAddUserCmd(open storeOpener) *cobra.Command {
	var username, password, role string
	cmd := &cobra.Command{
		Use:   "add-user",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != models.RoleAdmin && role != models.RoleUser {
				return fmt.Errorf("role must be %q or %q", models.RoleAdmin, models.RoleUser)
			}
			if password == "" {
				p, err := readPassword(cmd.OutOrStdout(), "Password: ")
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = p
			}
			if password == "" {
				return errors.New("password is required")
			}

			db, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := addUser(cmd.Context(), db, username, password, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User '%s' created with id %d.\n", username, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username for the new user")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&role, "role", models.RoleUser, "admin or user")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newImportBooksCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "import-books FILE.csv",
		Short: "Import books from a CSV file (title,author,category,stock,image_url,description)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			db, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := importBooks(cmd.Context(), db, f)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d books.\n", n)
			return err
		},
	}
}

func addUser(ctx context.Context, db *store.Store, username, password, role string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, errors.New("username is required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	id, err := db.CreateUser(ctx, username, hash, role)
	if errors.Is(err, store.ErrDuplicate) {
		return 0, fmt.Errorf("user %q already exists", username)
	}
	return id, err
}

// importBooks inserts one book per CSV record. A first row starting with
// "title" is treated as a header. It stops at the first bad record and
// returns how many books were inserted before it.
func importBooks(ctx context.Context, db *store.Store, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	n := 0
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "title") {
			continue
		}

		book, err := bookFromRecord(rec)
		if err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := db.CreateBook(ctx, book); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		n++
	}
}

func bookFromRecord(rec []string) (*models.Book, error) {
	field := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	b := &models.Book{
		Title:       field(0),
		Author:      field(1),
		Category:    field(2),
		ImageURL:    field(4),
		Description: field(5),
	}
	if b.Title == "" {
		return nil, errors.New("title is required")
	}
	if s := field(3); s != "" {
		stock, err := strconv.Atoi(s)
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("invalid stock %q", s)
		}
		b.Stock = stock
	}
	return b, nil
}

func readPassword(w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
