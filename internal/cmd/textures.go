package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/photoframer/internal/texture"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var texturesCmd = &cobra.Command{
	Use:   "textures",
	Short: "Generate seamless frame textures",
	Long:  "Generate the grain maps for the wood, linen and matte frame finishes.",
	RunE:  runTextures,
}

func init() {
	rootCmd.AddCommand(texturesCmd)

	texturesCmd.Flags().Int("size", texture.DefaultParams.Size, "Texture size in pixels (square)")
	texturesCmd.Flags().Int64("seed", texture.DefaultParams.Seed, "Deterministic seed for texture generation")
	texturesCmd.Flags().Float64("variation", texture.DefaultParams.Variation, "Grain contrast (0..1)")
	texturesCmd.Flags().Bool("force", false, "Overwrite textures that already exist")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"textures.size", "size"},
		{"textures.seed", "seed"},
		{"textures.variation", "variation"},
		{"textures.force", "force"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, texturesCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runTextures(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	dir := viper.GetString("textures_dir")
	params := texture.Params{
		Size:      viper.GetInt("textures.size"),
		Seed:      viper.GetInt64("textures.seed"),
		Variation: viper.GetFloat64("textures.variation"),
	}
	force := viper.GetBool("textures.force")

	if params.Size <= 0 {
		return fmt.Errorf("size must be positive")
	}
	if params.Variation < 0 || params.Variation > 1 {
		return fmt.Errorf("variation must be within [0,1]")
	}

	result, err := texture.WriteDefaultTextures(dir, params, force)
	if err != nil {
		return err
	}

	logger.Info("Texture generation complete",
		"dir", dir,
		"written", len(result.Written),
		"skipped", len(result.Skipped),
	)
	return nil
}
