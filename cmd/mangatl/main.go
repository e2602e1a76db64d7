package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/mangatl/internal/cli"
	"codeberg.org/snonux/mangatl/internal/models"
	"codeberg.org/snonux/mangatl/internal/processor"

	// OCR engines register themselves with the ocr package
	_ "codeberg.org/snonux/mangatl/internal/ocr/gemini"
	_ "codeberg.org/snonux/mangatl/internal/ocr/ollama"
	_ "codeberg.org/snonux/mangatl/internal/ocr/openai"
	_ "codeberg.org/snonux/mangatl/internal/ocr/tesseract"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	// Values from the config file apply where no flag was given
	cli.ApplyConfig(flags)

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey(), "")
		return lister.ListAvailableModels(cmd.Context())
	}

	if len(args) > 0 {
		flags.ImagePath = args[0]
	}
	if flags.ImagePath == "" && flags.Dir == "" {
		return fmt.Errorf("no input given: pass an image path or --dir")
	}

	// Create processor
	proc := processor.NewProcessor(flags)
	return proc.Process(cmd.Context())
}
