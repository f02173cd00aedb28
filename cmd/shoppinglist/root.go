// Command shoppinglist is a terminal client for the shopping list server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/shoppinglist/internal/client"
	"github.com/vyrodovalexey/shoppinglist/internal/model"
)

// EnvServer overrides the default server URL.
const EnvServer = "SHOPPINGLIST_SERVER"

const defaultServer = "http://localhost:8080"

// cli carries the state shared by every subcommand.
type cli struct {
	server  string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return (&cli{}).rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shoppinglist",
		Short: "Manage a shared shopping list",
		Long: `shoppinglist talks to a running shopping list server.

Items can be referred to by ID or by their 1-based position in the list,
as printed by "shoppinglist list".

Examples:
  shoppinglist add "Apples" --qty 10 --notes "Pink Lady"
  shoppinglist list
  shoppinglist toggle 1
  shoppinglist clear`,
		SilenceUsage: true,
	}

	server := os.Getenv(EnvServer)
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().StringVarP(&c.server, "server", "s", server, "server base URL (env "+EnvServer+")")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", client.DefaultTimeout, "request timeout")

	root.AddCommand(
		c.listCmd(),
		c.searchCmd(),
		c.addCmd(),
		c.getCmd(),
		c.updateCmd(),
		c.deleteCmd(),
		c.toggleCmd(),
		c.clearCmd(),
		c.reorderCmd(),
	)

	return root
}

// connect returns an API client and a context, both bounded by --timeout.
func (c *cli) connect(cmd *cobra.Command) (*client.Client, context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
	return client.New(c.server, client.WithHTTPClient(c.httpClient())), ctx, cancel
}

func (c *cli) httpClient() *http.Client {
	return &http.Client{Timeout: c.timeout}
}

// resolveID maps a list position to an item ID. Anything that is not a
// position is taken as an ID verbatim.
func resolveID(ctx context.Context, api *client.Client, ref string) (string, error) {
	ids, err := resolveIDs(ctx, api, []string{ref})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// resolveIDs resolves refs against a single snapshot of the list.
func resolveIDs(ctx context.Context, api *client.Client, refs []string) ([]string, error) {
	var items []model.ShoppingItem
	ids := make([]string, 0, len(refs))

	for _, ref := range refs {
		pos, err := strconv.Atoi(ref)
		if err != nil || pos < 1 {
			ids = append(ids, ref)
			continue
		}

		if items == nil {
			if items, err = api.List(ctx); err != nil {
				return nil, fmt.Errorf("failed to list items: %w", err)
			}
		}
		if pos > len(items) {
			return nil, fmt.Errorf("position %d out of range, the list has %d item(s)", pos, len(items))
		}
		ids = append(ids, items[pos-1].ID)
	}

	return ids, nil
}
