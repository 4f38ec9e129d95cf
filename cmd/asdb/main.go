// Copyright 2026 The asdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// asdb is a thin command line front end for building and inspecting
// AS database files.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/codegangsta/cli"

	"github.com/asdb/asdb"
)

func main() {
	app := cli.NewApp()
	app.Name = "asdb"
	app.Usage = "build and inspect AS database files"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "log debug output to stderr",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "create",
			Usage:     "build a database from a text file of 'number name' lines",
			ArgsUsage: "<input.txt> <output.db>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "vendor", Usage: "vendor string"},
				cli.StringFlag{Name: "description", Usage: "description string"},
			},
			Action: create,
		},
		{
			Name:      "dump",
			Usage:     "print a database's metadata and records",
			ArgsUsage: "<db>",
			Action:    dump,
		},
		{
			Name:      "get",
			Usage:     "look up one AS number",
			ArgsUsage: "<db> <number>",
			Action:    get,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "asdb: %s\n", err)
		os.Exit(1)
	}
}

func newContext(c *cli.Context) *asdb.Context {
	if c.GlobalBool("verbose") {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		return asdb.NewContext(asdb.WithLogger(logger))
	}
	return asdb.NewContext()
}

func create(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("expected <input.txt> <output.db>, got %d arguments", c.NArg())
	}
	inputPath, outputPath := c.Args()[0], c.Args()[1]

	ctx := newContext(c)
	defer ctx.Unref()

	w := asdb.NewWriter(ctx)
	if err := w.SetVendor(c.String("vendor")); err != nil {
		return err
	}
	if err := w.SetDescription(c.String("description")); err != nil {
		return err
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	scanner := bufio.NewScanner(in)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		numberField, name, _ := strings.Cut(line, " ")
		number, err := strconv.ParseUint(numberField, 10, 32)
		if err != nil {
			return fmt.Errorf("%s:%d: bad AS number %q: %w", inputPath, lineno, numberField, err)
		}
		if err := w.AddAS(uint32(number), strings.TrimSpace(name)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if err := w.WriteFile(outputPath); err != nil {
		return err
	}
	fmt.Printf("wrote %d ASes to %s\n", w.CountAS(), outputPath)
	return nil
}

func openDatabase(c *cli.Context, path string) (*asdb.Context, *asdb.Database, error) {
	ctx := newContext(c)

	f, err := os.Open(path)
	if err != nil {
		ctx.Unref()
		return nil, nil, err
	}
	defer f.Close()

	db, err := asdb.Open(ctx, f)
	if err != nil {
		ctx.Unref()
		return nil, nil, err
	}
	return ctx, db, nil
}

func dump(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected <db>, got %d arguments", c.NArg())
	}

	ctx, db, err := openDatabase(c, c.Args()[0])
	if err != nil {
		return err
	}
	defer ctx.Unref()
	defer db.Unref()

	vendor, err := db.Vendor()
	if err != nil {
		return err
	}
	description, err := db.Description()
	if err != nil {
		return err
	}

	fmt.Printf("version:     %d\n", db.Version())
	fmt.Printf("created at:  %s\n", db.CreatedAt())
	fmt.Printf("vendor:      %s\n", vendor)
	fmt.Printf("description: %s\n", description)
	fmt.Printf("ASes:        %d\n", db.CountAS())
	for i := 0; i < db.CountAS(); i++ {
		as, err := db.FetchAS(i)
		if err != nil {
			return err
		}
		fmt.Printf("  %s\n", as)
	}
	return nil
}

func get(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("expected <db> <number>, got %d arguments", c.NArg())
	}
	number, err := strconv.ParseUint(c.Args()[1], 10, 32)
	if err != nil {
		return fmt.Errorf("bad AS number %q: %w", c.Args()[1], err)
	}

	ctx, db, err := openDatabase(c, c.Args()[0])
	if err != nil {
		return err
	}
	defer ctx.Unref()
	defer db.Unref()

	as, err := db.GetAS(uint32(number))
	if err != nil {
		return err
	}
	if as == nil {
		return fmt.Errorf("AS%d not found", number)
	}
	fmt.Println(as)
	return nil
}
