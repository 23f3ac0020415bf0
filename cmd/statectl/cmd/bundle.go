package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/0xLeif/AppState-sub000/internal/wire"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "List every stored key and value",
	Args:  cobra.NoArgs,
	RunE:  runDump,
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write every stored value to a bundle file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Store every value from a bundle file",
	Long:  "Store every value from a bundle file. Existing keys are overwritten; other keys are left alone.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(dumpCmd, exportCmd, importCmd)
}

func runDump(cmd *cobra.Command, _ []string) (err error) {
	s, err := open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	items, err := collect(cmd.Context(), s)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "(no entries)")
		return nil
	}
	for _, it := range items {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", it.Key, it.Payload)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	s, err := open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	items, err := collect(cmd.Context(), s)
	if err != nil {
		return err
	}
	b, err := wire.EncodeBundle(items)
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], b, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d entries\n", len(items))
	return nil
}

func runImport(cmd *cobra.Command, args []string) (err error) {
	b, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	items, err := wire.DecodeBundle(b)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
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

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	for _, it := range items {
		scope, err := parseKey(it.Key)
		if err != nil {
			return err
		}
		// payloads are already encoded; bypass the codec and evict any cached copy
		if _, err := s.files.Set(ctx, scope.Key(), it.Payload, 1); err != nil {
			return fmt.Errorf("%s: %w", it.Key, err)
		}
		s.app.Store().Remove(scope.Key())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries\n", len(items))
	return nil
}

// collect reads every stored payload in key order.
func collect(ctx context.Context, s *session) ([]wire.BundleItem, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	keys, err := s.files.Keys(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]wire.BundleItem, 0, len(keys))
	for _, k := range keys {
		b, ok, err := s.files.Get(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		if ok {
			items = append(items, wire.BundleItem{Key: k, Payload: b})
		}
	}
	return items, nil
}
