package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/vyrodovalexey/shoppinglist/internal/model"
)

const (
	nameWidth  = 30
	notesWidth = 30
)

// printItems writes items as a numbered table. Numbers are the positions
// accepted by the commands that take <id|position>.
func printItems(w io.Writer, items []model.ShoppingItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items found.")
		return
	}

	fmt.Fprintf(w, "%-3s %-4s %-*s %5s  %-*s %s\n",
		"#", "DONE", nameWidth, "NAME", "QTY", notesWidth, "NOTES", "ID")
	fmt.Fprintln(w, strings.Repeat("-", 3+1+4+1+nameWidth+1+5+2+notesWidth+1+36))

	for i, item := range items {
		fmt.Fprintf(w, "%-3d %-4s %-*s %5d  %-*s %s\n",
			i+1,
			checkbox(item.IsPurchased),
			nameWidth, truncate(item.Name, nameWidth),
			item.Quantity,
			notesWidth, truncate(item.NotesOrEmpty(), notesWidth),
			item.ID,
		)
	}

	fmt.Fprintf(w, "\n%d item(s)\n", len(items))
}

func printItem(w io.Writer, item model.ShoppingItem) {
	fmt.Fprintf(w, "ID:        %s\n", item.ID)
	fmt.Fprintf(w, "Name:      %s\n", item.Name)
	fmt.Fprintf(w, "Quantity:  %d\n", item.Quantity)
	if item.Notes != nil {
		fmt.Fprintf(w, "Notes:     %s\n", *item.Notes)
	}
	fmt.Fprintf(w, "Purchased: %t\n", item.IsPurchased)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}
