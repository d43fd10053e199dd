package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (rt *runtime) print(cmd *cobra.Command, v any) error {
	if err := writeResult(cmd.OutOrStdout(), rt.cfg.Format, v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// writeResult renders v as indented JSON or as YAML. YAML goes through a
// JSON round trip so json tags and raw JSON fields render the same in both.
func writeResult(w io.Writer, format string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if format != "yaml" {
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
