// Package main renders the vpnforge command tree into a single markdown file.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/vpnforge/vpnforge/cmd/vpnforge/cmd"
)

func main() {
	var (
		outFile string
		check   bool
	)
	flag.StringVar(&outFile, "out", "./docs/CLI.md", "output file for generated markdown")
	flag.BoolVar(&check, "check", false, "fail when the output file is out of date instead of writing it")
	flag.Parse()

	if outFile == "" {
		log.Fatal("error: output file is required")
	}

	var buf bytes.Buffer
	if err := render(&buf, cmd.RootCmd()); err != nil {
		log.Fatalf("error: %s", err)
	}

	if check {
		current, err := os.ReadFile(filepath.Clean(outFile))
		if err != nil {
			log.Fatalf("error: %s", err)
		}
		if !bytes.Equal(current, buf.Bytes()) {
			log.Fatalf("error: %s is out of date, run generate-cli-docs", outFile)
		}
		return
	}

	if err := os.MkdirAll(filepath.Dir(outFile), 0o750); err != nil {
		log.Fatalf("error: creating output directory: %s", err)
	}
	if err := os.WriteFile(filepath.Clean(outFile), buf.Bytes(), 0o600); err != nil {
		log.Fatalf("error: writing %s: %s", outFile, err)
	}
	log.Printf("✅ Generated CLI documentation in %s", outFile)
}

// render writes an index of every command followed by one section per command.
func render(w io.Writer, root *cobra.Command) error {
	root.DisableAutoGenTag = true
	commands := collect(root)

	fmt.Fprintln(w, "# vpnforge CLI Documentation")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Command | Description |")
	fmt.Fprintln(w, "| --- | --- |")
	for _, c := range commands {
		fmt.Fprintf(w, "| [`%s`](#%s) | %s |\n", c.CommandPath(), anchor(c), c.Short)
	}
	fmt.Fprintln(w)

	for _, c := range commands {
		if err := section(w, c); err != nil {
			return fmt.Errorf("%s: %w", c.CommandPath(), err)
		}
	}
	return nil
}

// collect walks the tree depth first, siblings sorted by name.
func collect(c *cobra.Command) []*cobra.Command {
	if !c.IsAvailableCommand() && c.HasParent() {
		return nil
	}
	out := []*cobra.Command{c}
	children := slices.Clone(c.Commands())
	slices.SortFunc(children, func(a, b *cobra.Command) int { return strings.Compare(a.Name(), b.Name()) })
	for _, child := range children {
		if child.IsAdditionalHelpTopicCommand() || child.Name() == "help" || child.Name() == "completion" {
			continue
		}
		out = append(out, collect(child)...)
	}
	return out
}

func anchor(c *cobra.Command) string {
	return strings.ReplaceAll(c.CommandPath(), " ", "-")
}

func section(w io.Writer, c *cobra.Command) error {
	level := strings.Repeat("#", min(strings.Count(c.CommandPath(), " ")+2, 4))
	fmt.Fprintf(w, "%s %s\n\n", level, c.CommandPath())
	if c.Long != "" {
		fmt.Fprintf(w, "%s\n\n", c.Long)
	} else if c.Short != "" {
		fmt.Fprintf(w, "%s\n\n", c.Short)
	}
	if c.Example != "" {
		fmt.Fprintf(w, "**Examples:**\n\n```bash\n%s\n```\n\n", c.Example)
	}

	var generated bytes.Buffer
	if err := doc.GenMarkdown(c, &generated); err != nil {
		return err
	}
	if options := optionsOf(generated.String()); options != "" {
		fmt.Fprintf(w, "%s\n\n", options)
	}
	return nil
}

// optionsOf extracts the flag blocks cobra generates, dropping its headings
// for everything else.
func optionsOf(markdown string) string {
	var kept []string
	for block := range strings.SplitSeq(markdown, "\n### ") {
		if strings.HasPrefix(block, "Options") {
			kept = append(kept, "**"+strings.Replace(block, "\n", "**\n", 1))
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
