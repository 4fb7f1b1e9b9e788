package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	generateText string
	generateFile string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a BRD from text or a file without starting the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if generateText == "" && generateFile == "" {
			return eris.New("generate: one of --text or --file is required")
		}

		svc, err := buildService(cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		doc, err := func() (any, error) {
			if generateFile != "" {
				data, err := os.ReadFile(generateFile)
				if err != nil {
					return nil, eris.Wrapf(err, "generate: read %s", generateFile)
				}
				return svc.GenerateFromFile(ctx, filepath.Base(generateFile), data)
			}
			return svc.Generate(ctx, generateText)
		}()
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return eris.Wrap(err, "generate: marshal document")
		}
		fmt.Println(string(out))

		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateText, "text", "", "communication text to process")
	generateCmd.Flags().StringVar(&generateFile, "file", "", "file to extract and process (.txt, .pdf, .docx, .png, .jpg, .jpeg)")
	rootCmd.AddCommand(generateCmd)
}
