// Package cli is the interactive terminal front end for the inventory.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/andreasstove999/grocery-service-go/internal/inventory"
)

// Catalog is what the menu reads from.
type Catalog interface {
	ListAll() []inventory.Product
}

type Menu struct {
	catalog Catalog
	in      *bufio.Scanner
	out     io.Writer
}

func NewMenu(catalog Catalog, in io.Reader, out io.Writer) *Menu {
	return &Menu{catalog: catalog, in: bufio.NewScanner(in), out: out}
}

// Run loops until the user picks Exit, input ends or ctx is cancelled.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprintln(m.out, "\nCommands:")
		fmt.Fprintln(m.out, "1. Show Inventory")
		fmt.Fprintln(m.out, "2. Exit")
		fmt.Fprint(m.out, "Enter choice: ")

		if !m.in.Scan() {
			fmt.Fprintln(m.out)
			return m.in.Err()
		}

		switch strings.TrimSpace(m.in.Text()) {
		case "1":
			m.showInventory()
		case "2":
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice.")
		}
	}
}

func (m *Menu) showInventory() {
	fmt.Fprintln(m.out, "\n--- Current Inventory ---")
	products := m.catalog.ListAll()
	if len(products) == 0 {
		fmt.Fprintln(m.out, "Inventory is empty.")
		return
	}
	for _, p := range products {
		fmt.Fprintf(m.out, "%s - Price: ₹%s - Stock: %s\n", p.Name, p.Price, p.Stock)
	}
}
