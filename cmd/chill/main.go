// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

// Command chill is a CLI for CouchDB built on the chill client library.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cheggaaa/pb"
	"github.com/chill-db/chill-go/pkg/chill"
	"github.com/chill-db/chill-go/pkg/couch"
	"github.com/chill-db/chill-go/pkg/couch/action"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	server      = flag.String("server", "", "Server URL (default $CHILL_SERVER, config file, or "+defaultServer+")")
	username    = flag.String("user", "", "Username for basic authentication")
	password    = flag.String("password", "", "Password for basic authentication")
	retries     = flag.Uint64("retries", 0, "Retry reads on server errors up to this many times")
	rev         = flag.String("rev", "", "Document revision")
	attachments = flag.Bool("attachments", false, "Retrieve attachment content, not just stubs")
	docID       = flag.String("id", "", "Document ID (default a random UUID)")
)

var (
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	white  = color.New(color.FgWhite).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "chill [subcommand]",
	Short: "A CLI client for CouchDB",
}

func newClient() (*chill.Client, error) {
	path, err := configPath(os.Getenv)
	if err != nil {
		return nil, err
	}
	fc, err := loadFileConfig(path)
	if err != nil {
		return nil, err
	}
	s := resolveSettings(settings{Server: *server, Username: *username, Password: *password}, os.Getenv, fc)
	var opts []chill.Option
	if s.Username != "" {
		opts = append(opts, chill.WithBasicAuth(s.Username, s.Password))
	}
	if *retries > 0 {
		opts = append(opts, chill.WithRetry(*retries))
	}
	return chill.NewClient(s.Server, opts...)
}

func writeIndentedJSON(out io.Writer, b []byte) error {
	var decoded any
	if err := json.NewDecoder(bytes.NewBuffer(b)).Decode(&decoded); err != nil {
		return errors.Wrap(err, "decoding json")
	}
	e := json.NewEncoder(out)
	e.SetIndent("", "  ")
	if err := e.Encode(decoded); err != nil {
		return errors.Wrap(err, "encoding json")
	}
	return nil
}

// readContent decodes document content from the content argument, or from
// stdin when the argument is absent or "-".
func readContent(cmd *cobra.Command, args []string, argIdx int) (map[string]any, error) {
	var r io.Reader
	if len(args) > argIdx && args[argIdx] != "-" {
		r = bytes.NewReader([]byte(args[argIdx]))
	} else {
		r = cmd.InOrStdin()
	}
	var content map[string]any
	if err := json.NewDecoder(r).Decode(&content); err != nil {
		return nil, errors.Wrap(err, "decoding document content")
	}
	return content, nil
}

var infoCmd = &cobra.Command{
	Use:           "info",
	Short:         "Show the server greeting",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		info, err := c.ReadServerInfo().Run(cmd.Context())
		if err != nil {
			return err
		}
		pp := func(label string, value string) {
			fmt.Fprintln(cmd.OutOrStdout(), yellow(label), white(value))
		}
		pp("couchdb:", info.Couchdb)
		pp("version:", info.Version)
		if info.Vendor.Name != "" {
			pp("vendor: ", info.Vendor.Name)
		}
		return nil
	},
}

var dbsCmd = &cobra.Command{
	Use:           "dbs",
	Short:         "List all databases",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		dbs, err := c.ListDatabases().Run(cmd.Context())
		if err != nil {
			return err
		}
		for _, db := range dbs {
			fmt.Fprintln(cmd.OutOrStdout(), db)
		}
		return nil
	},
}

var mkdbCmd = &cobra.Command{
	Use:           "mkdb <database>",
	Short:         "Create a database",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.CreateDatabase(couch.DatabaseName(args[0])).Run(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), green("Created"), white(args[0]))
		return nil
	},
}

var rmdbCmd = &cobra.Command{
	Use:           "rmdb <database>",
	Short:         "Delete a database and all of its documents",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.DeleteDatabase(couch.DatabaseName(args[0])).Run(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), green("Deleted"), white(args[0]))
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:           "get /<database>/<document> [-rev=<rev>] [-attachments]",
	Short:         "Read a document",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := couch.ParseDocumentPath(args[0])
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		a := c.ReadDocument(path)
		if *rev != "" {
			r, err := couch.ParseRevision(*rev)
			if err != nil {
				return err
			}
			a = a.WithRevision(r)
		}
		if *attachments {
			a = a.WithAttachmentContent(action.AttachmentContentAll)
		}
		doc, err := a.Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStderr(), yellow("rev:"), white(doc.Rev.String()))
		if err := writeIndentedJSON(cmd.OutOrStdout(), doc.Content); err != nil {
			return err
		}
		if *attachments && len(doc.Attachments) > 0 {
			b, err := json.Marshal(doc.Attachments)
			if err != nil {
				return errors.Wrap(err, "encoding attachments")
			}
			fmt.Fprintln(cmd.OutOrStderr(), yellow("attachments:"))
			if err := writeIndentedJSON(cmd.OutOrStdout(), b); err != nil {
				return err
			}
		}
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create <database> [<content>] [-id=<id>]",
	Short: "Create a document",
	Long: `Create a document from the given JSON content, or from stdin when the
content argument is absent or "-". The document ID defaults to a random UUID.`,
	Args:          cobra.RangeArgs(1, 2),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readContent(cmd, args, 1)
		if err != nil {
			return err
		}
		id := *docID
		if id == "" {
			id = uuid.NewString()
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		meta, err := c.CreateDocument(couch.DatabaseName(args[0]), content).
			WithDocumentID(couch.DocumentID(id)).
			Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), green("Created"), white(meta.Database.String()+"/"+meta.ID.String()), yellow(meta.Rev.String()))
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:           "update /<database>/<document> -rev=<rev> [<content>]",
	Short:         "Overwrite a document at a known revision",
	Args:          cobra.RangeArgs(1, 2),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := couch.ParseDocumentPath(args[0])
		if err != nil {
			return err
		}
		if *rev == "" {
			return errors.New("update requires -rev")
		}
		r, err := couch.ParseRevision(*rev)
		if err != nil {
			return err
		}
		content, err := readContent(cmd, args, 1)
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		meta, err := c.UpdateDocument(path, r, content).Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), green("Updated"), white(path.String()), yellow(meta.Rev.String()))
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:           "rm /<database>/<document> -rev=<rev>",
	Short:         "Delete a document at a known revision",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := couch.ParseDocumentPath(args[0])
		if err != nil {
			return err
		}
		if *rev == "" {
			return errors.New("rm requires -rev")
		}
		r, err := couch.ParseRevision(*rev)
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		deletedRev, err := c.DeleteDocument(path, r).Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), green("Deleted"), white(path.String()), yellow(deletedRev.String()))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <database> <file>",
	Short: "Bulk-create documents from newline-delimited JSON",
	Long: `Import documents from a newline-delimited JSON file, one document per
line, creating each with a server-assigned or embedded _id.`,
	Args:          cobra.ExactArgs(2),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[1])
		if err != nil {
			return errors.Wrap(err, "opening import file")
		}
		defer f.Close()
		var lines [][]byte
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			lines = append(lines, append([]byte(nil), line...))
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrap(err, "reading import file")
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		db := couch.DatabaseName(args[0])
		bar := pb.New(len(lines))
		bar.Output = cmd.OutOrStderr()
		bar.ShowTimeLeft = true
		bar.Start()
		var failed int
		for i, line := range lines {
			var content map[string]any
			if err := json.Unmarshal(line, &content); err != nil {
				return errors.Wrapf(err, "line %d: decoding document", i+1)
			}
			if _, err := c.CreateDocument(db, content).Run(cmd.Context()); err != nil {
				failed++
				fmt.Fprintln(cmd.OutOrStderr(), yellow(fmt.Sprintf("line %d:", i+1)), err.Error())
			}
			bar.Increment()
		}
		bar.Finish()
		if failed > 0 {
			return errors.Errorf("%d of %d documents failed to import", failed, len(lines))
		}
		fmt.Fprintln(cmd.OutOrStdout(), green("Imported"), white(fmt.Sprintf("%d documents into %s", len(lines), db)))
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{infoCmd, dbsCmd, mkdbCmd, rmdbCmd, getCmd, createCmd, updateCmd, rmCmd, importCmd} {
		cmd.Flags().AddGoFlag(flag.Lookup("server"))
		cmd.Flags().AddGoFlag(flag.Lookup("user"))
		cmd.Flags().AddGoFlag(flag.Lookup("password"))
		cmd.Flags().AddGoFlag(flag.Lookup("retries"))
		rootCmd.AddCommand(cmd)
	}
	getCmd.Flags().AddGoFlag(flag.Lookup("rev"))
	getCmd.Flags().AddGoFlag(flag.Lookup("attachments"))
	createCmd.Flags().AddGoFlag(flag.Lookup("id"))
	updateCmd.Flags().AddGoFlag(flag.Lookup("rev"))
	rmCmd.Flags().AddGoFlag(flag.Lookup("rev"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
