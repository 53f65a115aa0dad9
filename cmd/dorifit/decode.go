package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dorifit/dorifit/pkg/model"
	"github.com/dorifit/dorifit/pkg/profile"
)

func newDecodeCmd() *cobra.Command {
	var (
		outPath string
		blob    string
	)

	cmd := &cobra.Command{
		Use:   "decode [export.json]",
		Short: "Decode a raw profile export into a profile",
		Long: `Converts a profile export (item levels plus the encoded card blob) into the
decoded profile the optimizer reads. With --blob, only the card blob is
decoded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if blob != "" {
				return decodeBlob(blob)
			}
			if len(args) != 1 {
				return fmt.Errorf("expected a profile export path or --blob")
			}
			return decodeExport(args[0], outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the decoded profile to this path instead of stdout")
	cmd.Flags().StringVar(&blob, "blob", "", "Decode a bare card blob")

	return cmd
}

func decodeBlob(blob string) error {
	cards, err := profile.Decode(blob)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(cards)
}

func decodeExport(path, outPath string) error {
	raw, err := profile.LoadRaw(path)
	if err != nil {
		return err
	}
	p, err := profile.Convert(raw)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Decoded %q: %d cards, %d bands\n", p.Name, len(p.Cards), len(p.Bands))

	if outPath != "" {
		if err := model.SaveProfile(outPath, p); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Profile saved: %s\n", outPath)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
