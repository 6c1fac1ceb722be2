package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/DachengChen/liturgiAI/ai"
	"github.com/DachengChen/liturgiAI/prompt"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var askFlags struct {
	instruction string
	file        string
	rows        int
	render      bool
	showPrompt  bool
}

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask the assistant about the dataset and print the answer",
	Example: `  liturgi ask
  liturgi ask -i "Lagu pembukaan apa yang paling sering dipakai?" --rows 200
  liturgi ask -f instruksi.txt --render`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		instruction, err := readInstruction()
		if err != nil {
			return err
		}

		env, err := setup()
		if err != nil {
			return err
		}
		defer env.Close()

		rows := env.cfg.Prompt.RowLimit
		if cmd.Flags().Changed("rows") {
			rows = askFlags.rows
		}

		out, err := env.svc.Ask(cmd.Context(), env.sess, instruction, rows)
		if err != nil {
			return err
		}

		stderr := cmd.ErrOrStderr()
		if out.Request.Truncated {
			fmt.Fprintln(stderr, "⚠ "+out.Request.Notice())
		}
		if out.HistoryErr != nil {
			fmt.Fprintln(stderr, "⚠ riwayat gagal disimpan:", out.HistoryErr)
		}
		if askFlags.showPrompt {
			fmt.Fprintln(stderr, out.Request.Prompt)
			fmt.Fprintln(stderr)
		}

		text := out.Answer.Text
		if askFlags.render {
			if r, err := glamour.Render(text, "dark"); err == nil {
				text = r
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)

		if out.Answer.Kind == ai.TransportFailure {
			return fmt.Errorf("model call failed: %w", out.Answer.Err)
		}
		return nil
	},
}

func readInstruction() (string, error) {
	switch {
	case askFlags.instruction != "" && askFlags.file != "":
		return "", fmt.Errorf("use either -i or -f, not both")
	case askFlags.file != "":
		data, err := os.ReadFile(askFlags.file)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	case askFlags.instruction != "":
		return askFlags.instruction, nil
	default:
		return prompt.DefaultInstruction, nil
	}
}

func init() {
	askCmd.Flags().StringVarP(&askFlags.instruction, "instruction", "i", "", "instruction for the assistant (default: the liturgy analysis request)")
	askCmd.Flags().StringVarP(&askFlags.file, "file", "f", "", "read the instruction from a file")
	askCmd.Flags().IntVar(&askFlags.rows, "rows", 0, "send only the first N rows (0 = all; default from config)")
	askCmd.Flags().BoolVar(&askFlags.render, "render", false, "render the markdown answer for the terminal")
	askCmd.Flags().BoolVar(&askFlags.showPrompt, "show-prompt", false, "print the composed prompt to stderr")
	rootCmd.AddCommand(askCmd)
}
