package main

import (
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/vango-dev/urlstore/internal/errors"
	"github.com/vango-dev/urlstore/pkg/fieldkind"
	"github.com/vango-dev/urlstore/pkg/urlstore"
)

func decodeCmd(g *globals) *cobra.Command {
	var (
		path    string
		compact bool
		color   bool
	)

	cmd := &cobra.Command{
		Use:   "decode <fragment>",
		Short: "Decode a fragment into JSON state",
		Long: `Decode a fragment, or the fragment of a full URL, into JSON.

Defaults from the configuration are applied and declared keys are
converted to their types. --path selects part of the result using
gjson path syntax.

Examples:
  urlstore decode '#count=5&flying=yes'
  urlstore decode 'https://cat.net/hey#birdlist=%5B%22jay%22%5D' --path birdlist.0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := g.openStore(cmd, asFragment(args[0]))
			if err != nil {
				return err
			}
			state, err := store.Read()
			if err != nil {
				return err
			}
			data, err := json.Marshal(state)
			if err != nil {
				return errors.New("E004").Wrap(err)
			}

			if path != "" {
				result := gjson.GetBytes(data, path)
				if !result.Exists() {
					return errors.New("E141").WithField(path)
				}
				data = []byte(result.Raw)
			}

			if compact {
				data = pretty.Ugly(data)
			} else {
				data = pretty.Pretty(data)
				if color && !g.noColor {
					data = pretty.Color(data, nil)
				}
			}
			printLine(cmd, string(trimNewline(data)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Select a value with a gjson path")
	cmd.Flags().BoolVar(&compact, "compact", false, "Print compact JSON")
	cmd.Flags().BoolVar(&color, "color", false, "Colorize JSON output")

	return cmd
}

func encodeCmd(g *globals) *cobra.Command {
	var base string

	cmd := &cobra.Command{
		Use:   "encode <json>",
		Short: "Encode JSON state into a fragment",
		Long: `Encode a JSON object into a fragment.

The object is merged over the state decoded from --fragment, so
existing keys survive unless they are overwritten.

Examples:
  urlstore encode '{"flying":true,"count":5}'
  urlstore encode '{"level":3}' --fragment '#count=5'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var partial urlstore.State
			if err := json.Unmarshal([]byte(args[0]), &partial); err != nil {
				return errors.New("E140").
					WithDetail("The state must be a JSON object.").
					WithInput(args[0], -1).
					Wrap(err)
			}

			store, loc, err := g.openStore(cmd, asFragment(base))
			if err != nil {
				return err
			}
			if err := store.Write(partial); err != nil {
				return err
			}
			printLine(cmd, loc.Fragment())
			return nil
		},
	}

	cmd.Flags().StringVarP(&base, "fragment", "f", "", "Fragment to merge into")

	return cmd
}

func setCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <fragment> <path> <value>",
		Short: "Change one value inside a fragment",
		Long: `Decode a fragment, set the value at a gjson/sjson path, and
encode the result.

A value that is valid JSON is stored as JSON; anything else is
stored as a string. Declared boolean keys also accept yes and no.

Examples:
  urlstore set '#count=5' count 7
  urlstore set '#flying=yes' flying no
  urlstore set '#birdlist=%5B%22jay%22%5D' birdlist.-1 robin`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fragment, path, value := args[0], args[1], args[2]

			store, loc, err := g.openStore(cmd, asFragment(fragment))
			if err != nil {
				return err
			}
			state, err := store.Read()
			if err != nil {
				return err
			}
			data, err := json.Marshal(state)
			if err != nil {
				return errors.New("E004").Wrap(err)
			}

			if store.Schema().Kind(path) == fieldkind.Bool && !gjson.Valid(value) {
				value = strconv.FormatBool(fieldkind.DeserializeBool(value))
			}
			if gjson.Valid(value) {
				data, err = sjson.SetRawBytes(data, path, []byte(value))
			} else {
				data, err = sjson.SetBytes(data, path, value)
			}
			if err != nil {
				return errors.New("E142").WithField(path).Wrap(err)
			}

			var updated urlstore.State
			if err := json.Unmarshal(data, &updated); err != nil {
				return errors.New("E142").WithField(path).Wrap(err)
			}
			if err := store.Write(updated); err != nil {
				return err
			}
			printLine(cmd, loc.Fragment())
			return nil
		},
	}

	return cmd
}

func migrateCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate <url>",
		Short: "Move the query of a URL into its fragment",
		Long: `Move the query string of a URL into its fragment and print the
resulting URL. Escapes in the query are kept and declared booleans
are written as yes/no.

Example:
  urlstore migrate 'https://cat.net/hey?count=5&name=birds'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := g.openStore(cmd, args[0])
			if err != nil {
				return err
			}
			if err := store.MoveQueryToFragment(); err != nil {
				return err
			}
			printLine(cmd, store.Href())
			return nil
		},
	}

	return cmd
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}
	return b
}
