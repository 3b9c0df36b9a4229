package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "photoframer",
	Short: "A photo framing and print composition engine",
	Long: `PhotoFramer fits customer photos into picture frames, applies tone
adjustments and composes print-ready images, framed previews and room
mock-ups for the storefront cart.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("textures-dir", "assets/textures", "Directory holding frame texture PNGs")
	rootCmd.PersistentFlags().String("rooms-dir", "assets/rooms", "Directory holding one folder of room photos per frame size")
	rootCmd.PersistentFlags().String("room-coords", "", "YAML file overriding the embedded room placement table")
	rootCmd.PersistentFlags().Int("print-width", 1200, "Width in pixels of the composed print")
	rootCmd.PersistentFlags().Int("jpeg-quality", 95, "JPEG quality of the composed print (1-100)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("log-format", "auto", "Log format: auto, text or json")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"textures_dir", "textures-dir"},
		{"rooms_dir", "rooms-dir"},
		{"room_coords", "room-coords"},
		{"print_width", "print-width"},
		{"jpeg_quality", "jpeg-quality"},
		{"verbose", "verbose"},
		{"log_format", "log-format"},
	}
	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, rootCmd.PersistentFlags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func initConfig() {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("PHOTOFRAMER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
