package main

import (
	"fmt"
	"os"

	"github.com/doctorazi/blogdesk/internal/config"
	"gopkg.in/yaml.v3"
)

func main() {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating YAML: %v\n", err)
		os.Exit(1)
	}

	header := "# Blog desk configuration example\n" +
		"# Secrets are read from the environment: " +
		config.EnvJWTSecret + ", " + config.EnvClerkAPIKey + ", " +
		config.EnvS3AccessKeyID + ", " + config.EnvS3SecretAccessKey + ", " +
		config.EnvMinIOAccessKey + ", " + config.EnvMinIOSecretKey + "\n\n"
	output := header + string(yamlData)

	outputFile := "config.example.yaml"
	if len(os.Args) > 1 {
		outputFile = os.Args[1]
	}

	if outputFile == "-" {
		fmt.Print(output)
		return
	}
	if err := os.WriteFile(outputFile, []byte(output), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated example config: %s\n", outputFile)
}
