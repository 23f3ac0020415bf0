package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	appstate "github.com/0xLeif/AppState-sub000"
)

var getCmd = &cobra.Command{
	Use:   "get <name/id>",
	Short: "Print a stored value",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var setCmd = &cobra.Command{
	Use:   "set <name/id> <json>",
	Short: "Store a JSON value",
	Long:  "Store a JSON value. With --string the argument is stored as a JSON string.",
	Args:  cobra.ExactArgs(2),
	RunE:  runSet,
}

var rmCmd = &cobra.Command{
	Use:   "rm <name/id>...",
	Short: "Remove stored values",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRm,
}

func init() {
	getCmd.Flags().StringP("output", "o", "json", "output format: json or yaml")
	setCmd.Flags().Bool("string", false, "store the argument as a JSON string")
	rootCmd.AddCommand(getCmd, setCmd, rmCmd)
}

func value(s *session, scope appstate.Scope) *appstate.Value[json.RawMessage] {
	return appstate.NewFileState(s.app, scope, func() json.RawMessage { return nil })
}

func runGet(cmd *cobra.Command, args []string) (err error) {
	scope, err := parseKey(args[0])
	if err != nil {
		return err
	}
	s, err := open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	raw := value(s, scope).Get()
	if raw == nil {
		return &appstate.MissingKeysError{Keys: []string{scope.Key()}}
	}

	out := []byte(raw)
	if format, _ := cmd.Flags().GetString("output"); format == "yaml" {
		if out, err = yaml.JSONToYAML(raw); err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runSet(cmd *cobra.Command, args []string) (err error) {
	scope, err := parseKey(args[0])
	if err != nil {
		return err
	}
	raw := json.RawMessage(args[1])
	if asString, _ := cmd.Flags().GetBool("string"); asString {
		if raw, err = json.Marshal(args[1]); err != nil {
			return err
		}
	}
	if !json.Valid(raw) {
		return errors.New("value is not valid JSON; use --string for plain text")
	}

	s, err := open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	value(s, scope).Set(raw)
	return nil
}

func runRm(cmd *cobra.Command, args []string) (err error) {
	scopes := make([]appstate.Scope, 0, len(args))
	for _, a := range args {
		scope, err := parseKey(a)
		if err != nil {
			return err
		}
		scopes = append(scopes, scope)
	}
	s, err := open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for _, scope := range scopes {
		value(s, scope).Remove()
	}
	return nil
}
