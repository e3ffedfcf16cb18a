package cmd

import (
	"fmt"
	"log"

	"MuseFM/config"
	"MuseFM/storage"

	"github.com/spf13/cobra"
)

var minioPrefix string

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "MinIO bucket status",
	Long:  `Connect to MinIO and print the bucket contents and usage totals.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		fmt.Printf("MinIO: %s, Bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("Failed to connect to MinIO: %v", err)
		}
		fmt.Println("MinIO connection established.")

		if err := storage.PrintBucketStatus(cfg, minioPrefix); err != nil {
			log.Fatalf("Failed to read bucket status: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)

	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "filter objects by key prefix")

	minioCmd.Example = `  # List everything in the bucket
  musefm minio

  # Only uploaded audio
  musefm minio -p "audio/"

  # Only cover art
  musefm minio -p "covers/"`
}
